package mood

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a short-TTL Redis cache for aggregated mood responses. A nil
// *Cache is valid and disables caching, so the handlers degrade gracefully
// when Redis is not configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a Cache backed by the given Redis URL.
func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Cache{rdb: redis.NewClient(opts), ttl: ttl}, nil
}

// Get loads a cached value into v. Returns false on miss, decode failure,
// or when the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, v interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Set stores a value under the cache TTL. Failures are ignored; the cache
// is an optimization, not a source of truth.
func (c *Cache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, c.ttl)
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
