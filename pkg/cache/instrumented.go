package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Instrumented wraps c so that hits, misses and writes are reported to
// the registered observability cache hooks.
func Instrumented(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, hit, nil
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// KeyType returns the kind of a key built by a Keyer ("layout",
// "artifact" or "frame"), ignoring any scope prefix. Unrecognized keys
// report "other".
func KeyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case "layout", "artifact", "frame":
			return part
		}
	}
	return "other"
}
