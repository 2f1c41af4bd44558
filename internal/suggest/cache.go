package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "sideplanner:suggest:"

// Cache stores parsed suggestions by prompt hash.
type Cache interface {
	Get(ctx context.Context, key string) ([]Suggestion, bool, error)
	Set(ctx context.Context, key string, suggestions []Suggestion) error
}

// RedisCache is a Cache backed by Redis string keys with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Suggestion, bool, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []Suggestion
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, suggestions []Suggestion) error {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
}
