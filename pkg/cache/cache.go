// Package cache provides storage backends for package index responses.
//
// The index client stores each successful lookup under a namespaced key so
// repeated runs over the same project do not hit the index again until the
// entry expires. Failed lookups are never cached.
//
// Backends:
//
//   - [FileCache]: one JSON file per key under ~/.cache/deplic (CLI default)
//   - [MemoryCache]: bounded in-process LRU with expiry
//   - [RedisCache]: shared cache for CI runners
//   - [NullCache]: caching disabled
//
// Use [Open] to build a backend from a --cache flag value.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
// Implementations must be safe for concurrent use by multiple goroutines.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
