// internal/adapters/redis/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tocpharma/packing-be/internal/core/ports"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheKeyPrefix namespaces the keys so DeletePattern can invalidate one
// family without touching the others.
type CacheKeyPrefix string

const (
	PrefixPackings CacheKeyPrefix = "packings"
	PrefixExport   CacheKeyPrefix = "export"
	PrefixSlipLock CacheKeyPrefix = "sliplock"
)

// BuildKey joins a prefix and its parts with colons.
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	if len(parts) == 0 {
		return string(prefix)
	}
	return string(prefix) + ":" + strings.Join(parts, ":")
}

// Cache stores JSON-encoded values in Redis with a default TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.CacheRepository = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ports.CacheRepository {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.setWithTTL(ctx, key, value, c.ttl)
}

func (c *Cache) setWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Get unmarshals the value at key into dest, or returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		c.logger.ErrorContext(ctx, "cache get failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.ErrorContext(ctx, "cache delete failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// DeletePattern removes every key matching the glob pattern. It scans
// rather than using KEYS so a large invalidation does not block Redis.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}

	return c.Delete(ctx, keys...)
}

// GetOrSet serves key from cache, falling back to fetch on a miss. A failed
// cache write after the fetch is logged but does not fail the call.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	if err := c.setWithTTL(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "could not cache fetched value",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	// Round-trip through JSON so dest sees the same shape a cache hit
	// would produce.
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal fetched value for %s: %w", key, err)
	}
	return json.Unmarshal(data, dest)
}

// SetNX claims key for ttl if no one holds it. Returns false when the key
// already exists.
func (c *Cache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal lock value for %s: %w", key, err)
	}

	ok, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (c *Cache) Increment(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return val, nil
}
