package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "order")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	key := c.GenerateKey("create", "abc")
	assert.Equal(t, "order:create:abc", key)

	require.NoError(t, c.Set(ctx, key, "order-1", time.Minute))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "order-1", got)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestRedis(t)

	got, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCache_SetIfAbsent(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	ok, err := c.SetIfAbsent(ctx, "k", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetIfAbsent(ctx, "k", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "first", got)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, err = c.SetIfAbsent(ctx, "k", "third", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "redis get k")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache("order").(*memoryCache)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Equal(t, "order:create:abc", c.GenerateKey("create", "abc"))

	ok, err := c.SetIfAbsent(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = c.SetIfAbsent(ctx, "k", "w", time.Minute)
	assert.False(t, ok)

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "v", got)

	now = now.Add(time.Minute)
	got, _ = c.Get(ctx, "k")
	assert.Empty(t, got, "expired")

	require.NoError(t, c.Set(ctx, "forever", "x", 0))
	now = now.Add(24 * time.Hour)
	got, _ = c.Get(ctx, "forever")
	assert.Equal(t, "x", got)

	require.NoError(t, c.Delete(ctx, "forever"))
	got, _ = c.Get(ctx, "forever")
	assert.Empty(t, got)
}
