// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository is the cache surface the services and handlers rely on:
// JSON value storage for listings and exports, pattern invalidation after a
// confirm, and SetNX/Increment for worker locks and counters.
type CacheRepository interface {
	// Set stores value under key with the adapter's default TTL; callers
	// that need a specific lifetime go through GetOrSet or SetNX.
	Set(ctx context.Context, key string, value interface{}) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// GetOrSet returns the cached value for key, or runs fetch and caches
	// its result for ttl on a miss.
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	// SetNX writes only when the key is absent; used as a lightweight lock.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	Increment(ctx context.Context, key string) (int64, error)
}
