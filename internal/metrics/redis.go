package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/tweets/internal/errx"
)

// DefaultRedisKey is the hash holding all counters when no key is configured.
const DefaultRedisKey = "tweets:metrics"

// RedisConfig holds the connection settings for RedisCounter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisCounter keeps every counter as a field of one Redis hash so that
// several service instances share the same totals.
type RedisCounter struct {
	client *redis.Client
	key    string
}

// NewRedisCounter connects to Redis and verifies the connection.
func NewRedisCounter(ctx context.Context, cfg RedisConfig) (*RedisCounter, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisCounterFromClient(client, cfg.Key), nil
}

// NewRedisCounterFromClient wraps an existing client. An empty key selects
// DefaultRedisKey.
func NewRedisCounterFromClient(client *redis.Client, key string) *RedisCounter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCounter{client: client, key: key}
}

func (c *RedisCounter) Increment(ctx context.Context, name string, delta int64) error {
	const op = "metrics.redis.Increment"

	if err := c.client.HIncrBy(ctx, c.key, name, delta).Err(); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}

func (c *RedisCounter) Snapshot(ctx context.Context) (map[string]int64, error) {
	const op = "metrics.redis.Snapshot"

	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}

	out := make(map[string]int64, len(fields))
	for name, raw := range fields {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errx.E(op, errx.Internal, fmt.Errorf("counter %q: %w", name, err))
		}
		out[name] = v
	}
	return out, nil
}

// Close closes the Redis connection.
func (c *RedisCounter) Close() error {
	return c.client.Close()
}
