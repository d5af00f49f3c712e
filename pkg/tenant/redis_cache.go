package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces tenant cache keys.
const DefaultRedisPrefix = "tenants:"

// RedisCache shares resolved tenants between application instances.
// Unlike the memory cache it decodes a fresh *Tenant on every hit.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. The client is owned by the caller
// and is not closed by Close.
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached tenant. Decoding and transport errors count as a miss.
func (c *RedisCache) Get(ctx context.Context, slug string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.prefix+slug).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *RedisCache) Set(ctx context.Context, slug string, t *Tenant) error {
	if t == nil {
		return errors.New("tenant: cannot cache nil tenant")
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("tenant: marshal cache entry: %w", err)
	}
	return c.client.Set(ctx, c.prefix+slug, data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, slug string) error {
	return c.client.Del(ctx, c.prefix+slug).Err()
}

func (c *RedisCache) Close() error {
	return nil
}
