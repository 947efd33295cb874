package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
	// Timeout bounds dialing and each read/write.
	Timeout time.Duration
	// PoolSize is the maximum number of socket connections.
	PoolSize int
}

// DefaultRedisConfig returns Redis settings suited to a cache tier.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		URL:      "redis://localhost:6379/0",
		Timeout:  2 * time.Second,
		PoolSize: 20,
	}
}

// RedisBackend is a remote cache backend on Redis.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a Redis backend. The connection is established
// lazily, so an unreachable server is not an error here.
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	return &RedisBackend{client: redis.NewClient(opts)}, nil
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get returns the value stored under key.
func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetEx stores value with a TTL rounded up to whole seconds.
func (r *RedisBackend) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.SetEx(ctx, key, value, ttlSeconds(ttl)).Err()
}

// Delete removes key.
func (r *RedisBackend) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteMatching removes every key matching the glob pattern.
func (r *RedisBackend) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return r.client.Del(ctx, keys...).Result()
}

// Ping checks the connection.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// HealthCheck verifies Redis is reachable.
func (r *RedisBackend) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.Ping(ctx)
}

// Close closes the client.
func (r *RedisBackend) Close(_ context.Context) error {
	return r.client.Close()
}

// Name returns "redis".
func (r *RedisBackend) Name() string {
	return "redis"
}

// ttlSeconds converts ttl to whole seconds, with a minimum of one.
func ttlSeconds(ttl time.Duration) time.Duration {
	secs := (ttl + time.Second - 1) / time.Second
	if secs < 1 {
		secs = 1
	}
	return secs * time.Second
}
