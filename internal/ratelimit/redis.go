package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "checker:search:"

// RedisLimiter enforces the per-key gap across every replica sharing one
// Redis. Each allowed call claims a key that expires after the gap, so Redis
// does the sweeping.
type RedisLimiter struct {
	rdb    redis.UniversalClient
	gap    time.Duration
	prefix string
}

func NewRedisLimiter(rdb redis.UniversalClient, gap time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, gap: gap, prefix: defaultKeyPrefix}
}

// NewRedisClient connects and pings, failing fast on a bad address.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.gap <= 0 {
		return true, nil
	}
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, 1, l.gap).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
