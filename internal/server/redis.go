package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moajmalnk/faisytkd/internal/analytics"
)

// Cache keys for the read endpoints.
const (
	cacheAccounts     = "accounts"
	cacheCategories   = "categories"
	cacheTransactions = "transactions"
	cacheSummary      = "summary"
)

var cacheKeys = func() []string {
	keys := []string{cacheAccounts, cacheCategories, cacheTransactions}
	for _, p := range analytics.Periods {
		keys = append(keys, summaryKey(p))
	}
	return keys
}()

func summaryKey(p analytics.Period) string {
	return cacheSummary + ":" + string(p)
}

// Cache is a read-through cache for serialized responses. A miss returns
// ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// RedisCache implements Cache on Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis. The address may be host:port or a full
// redis:// URL.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	if redisURL == "" {
		redisURL = "redis:6379"
	}

	if !strings.Contains(redisURL, "://") {
		redisURL = fmt.Sprintf("redis://%s", redisURL)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: strings.TrimPrefix(redisURL, "redis://"),
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (r *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.client.SetEx(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (r *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NoCache is used when Redis is unavailable.
type NoCache struct{}

func (NoCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NoCache) Set(context.Context, string, []byte, time.Duration) {}
func (NoCache) Invalidate(context.Context, ...string)              {}
