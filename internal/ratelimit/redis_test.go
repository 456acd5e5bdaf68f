package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLimiter(rdb, time.Second)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("checker:search:203.0.113.7"))

	ok, err = l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Second)
	ok, err = l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ZeroGapSkipsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLimiter(rdb, 0)
	ok, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, mr.Keys())
}

func TestRedisLimiter_ReportsBackendErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.SetError("LOADING")

	_, err := NewRedisLimiter(rdb, time.Second).Allow(context.Background(), "a")
	assert.Error(t, err)
}

func TestNewRedisClient_RequiresAddress(t *testing.T) {
	_, err := NewRedisClient("  ", "", 0)
	assert.Error(t, err)
}
