package cache

import (
	"context"
	"time"
)

// NullCache stores nothing and reports every lookup as a miss. The CLI
// uses it for --no-cache and when the configured backend is unreachable,
// and the live-view server uses it when no frame cache is configured.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
