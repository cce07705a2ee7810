// Package cache stores rendered artifacts and computed layouts.
//
// Headless renders are deterministic: the same graph document, canvas,
// physics, theme, seed and tick count always produce the same bytes. The
// CLI keys artifacts by a content hash of all of those and skips the
// simulation entirely on a hit. The live-view server uses the same
// interface to keep recently encoded PNG frames.
//
// # Backends
//
//   - [FileCache]: one file per entry under ~/.cache/forcegraph
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// Wrap any backend with [Instrumented] to report hits and misses through
// the observability cache hooks.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	FrameTTL    = 30 * time.Second
)

// DefaultDir returns the cache directory, honoring XDG_CACHE_HOME.
func DefaultDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "forcegraph")
}
