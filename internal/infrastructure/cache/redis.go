package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"produce-grader/internal/domain/entity"
	"produce-grader/internal/domain/port"
)

var _ port.ResultCache = (*RedisCache)(nil)

// RedisCache кэш в Redis, срок жизни задаётся через EX.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache разбирает URL вида redis://host:port/db и проверяет соединение.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errNonPositiveTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCacheUnavailable, err)
	}
	return data, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
