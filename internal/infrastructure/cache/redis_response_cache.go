package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResponseKeyPrefix = "resp:"

// RedisResponseCache stores JSON-encoded read responses with a TTL, shared by
// every instance behind the load balancer
type RedisResponseCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisResponseCache creates a response cache. An empty prefix uses "resp:".
func NewRedisResponseCache(client redis.UniversalClient, keyPrefix string) *RedisResponseCache {
	if keyPrefix == "" {
		keyPrefix = defaultResponseKeyPrefix
	}
	return &RedisResponseCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the cached value of key into dst. It reports false on a miss.
func (c *RedisResponseCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached response: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return true, nil
}

// Set stores value under key for ttl
func (c *RedisResponseCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}
