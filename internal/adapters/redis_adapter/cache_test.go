package redis_a_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/tocpharma/packing-be/internal/adapters/redis_adapter"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/test/helpers"
)

func newTestCache(t *testing.T) (ports.CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger()), mr
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	t.Run("string", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "rt:string", "packing station 4"))

		var got string
		require.NoError(t, cache.Get(ctx, "rt:string", &got))
		assert.Equal(t, "packing station 4", got)
	})

	t.Run("slice", func(t *testing.T) {
		serials := []string{"SN-0001", "SN-0002", "SN-0003"}
		require.NoError(t, cache.Set(ctx, "rt:slice", serials))

		var got []string
		require.NoError(t, cache.Get(ctx, "rt:slice", &got))
		assert.Equal(t, serials, got)
	})

	t.Run("struct", func(t *testing.T) {
		value := struct {
			DocNo   string `json:"doc_no"`
			Scanned int    `json:"scanned"`
		}{DocNo: "IV6806-00042", Scanned: 7}
		require.NoError(t, cache.Set(ctx, "rt:struct", value))

		var raw json.RawMessage
		require.NoError(t, cache.Get(ctx, "rt:struct", &raw))

		want, _ := json.Marshal(value)
		assert.JSONEq(t, string(want), string(raw))
	})

	t.Run("missing_key_is_cache_miss", func(t *testing.T) {
		var got string
		err := cache.Get(ctx, "rt:absent", &got)
		assert.True(t, errors.Is(err, redis_a.ErrCacheMiss))
	})
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	var got string
	require.NoError(t, cache.GetOrSet(ctx, "ttl:listing", &got,
		func() (interface{}, error) { return "value", nil }, 100*time.Millisecond))
	require.NoError(t, cache.Get(ctx, "ttl:listing", &got))

	mr.FastForward(200 * time.Millisecond)

	err := cache.Get(ctx, "ttl:listing", &got)
	assert.Equal(t, redis_a.ErrCacheMiss, err)
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	for _, key := range []string{"packings:p1", "packings:p2", "export:json:abc"} {
		require.NoError(t, cache.Set(ctx, key, "value"))
	}

	require.NoError(t, cache.DeletePattern(ctx, "packings:*"))

	var got string
	assert.Equal(t, redis_a.ErrCacheMiss, cache.Get(ctx, "packings:p1", &got))
	assert.Equal(t, redis_a.ErrCacheMiss, cache.Get(ctx, "packings:p2", &got))

	// Keys outside the family survive the invalidation.
	require.NoError(t, cache.Get(ctx, "export:json:abc", &got))
	assert.Equal(t, "value", got)
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	fetchCount := 0
	fetch := func() (interface{}, error) {
		fetchCount++
		return "fetched value", nil
	}

	var first string
	require.NoError(t, cache.GetOrSet(ctx, "getorset:listing", &first, fetch, time.Minute))
	assert.Equal(t, "fetched value", first)
	assert.Equal(t, 1, fetchCount)

	var second string
	require.NoError(t, cache.GetOrSet(ctx, "getorset:listing", &second, fetch, time.Minute))
	assert.Equal(t, "fetched value", second)
	assert.Equal(t, 1, fetchCount, "second call must be served from cache")
}

func TestCache_GetOrSet_FetchError(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	boom := errors.New("repository down")
	var dest string
	err := cache.GetOrSet(ctx, "getorset:err", &dest, func() (interface{}, error) {
		return nil, boom
	}, time.Minute)

	assert.ErrorIs(t, err, boom)
}

func TestCache_SetNXLock(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	key := redis_a.BuildKey(redis_a.PrefixSlipLock, "IV6806-00042")

	ok, err := cache.SetNX(ctx, key, "job-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "first claim wins")

	ok, err = cache.SetNX(ctx, key, "job-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second claim is rejected while the lock is held")

	var holder string
	require.NoError(t, cache.Get(ctx, key, &holder))
	assert.Equal(t, "job-1", holder)

	require.NoError(t, cache.Delete(ctx, key))

	ok, err = cache.SetNX(ctx, key, "job-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock can be reclaimed after release")
}

func TestCache_Increment(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	val, err := cache.Increment(ctx, "slips:rendered:2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)

	val, err = cache.Increment(ctx, "slips:rendered:2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, int64(2), val)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "packings:list:p1", redis_a.BuildKey(redis_a.PrefixPackings, "list", "p1"))
	assert.Equal(t, "export:json", redis_a.BuildKey(redis_a.PrefixExport, "json"))
	assert.Equal(t, "sliplock", redis_a.BuildKey(redis_a.PrefixSlipLock))
}
