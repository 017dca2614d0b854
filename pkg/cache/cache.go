// Package cache stores rendered scene artifacts (DOT, SVG, PNG) keyed by
// the content hash of their DOT source.
//
// Global transforms are never cached: every computation walks the
// hierarchy from scratch. Only the output of the comparatively expensive
// Graphviz layout step is worth keeping.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Wrap any backend with [Instrument] to report hits, misses and writes to
// an observability.CacheHooks implementation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present. A missing
	// or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour
