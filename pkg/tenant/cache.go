package tenant

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenants/pkg/cache"
)

// Cache keeps recently resolved tenants keyed by slug.
type Cache interface {
	// Get retrieves a tenant by slug.
	Get(ctx context.Context, slug string) (*Tenant, bool)

	// Set stores a tenant under slug.
	Set(ctx context.Context, slug string, t *Tenant) error

	// Delete evicts the tenant stored under slug.
	Delete(ctx context.Context, slug string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default capacity of the in-memory cache.
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long a resolved tenant stays cached by default.
const DefaultCacheTTL = 5 * time.Minute

type memoryCache struct {
	lru *cache.LRU[string, *Tenant]
}

// NewMemoryCache creates an in-process LRU cache. Non-positive arguments fall back to defaults.
// Cached pointers are returned as stored, so repeated lookups yield the same *Tenant.
func NewMemoryCache(size int, ttl time.Duration) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &memoryCache{lru: cache.NewLRU[string, *Tenant](size, ttl)}
}

func (c *memoryCache) Get(_ context.Context, slug string) (*Tenant, bool) {
	return c.lru.Get(slug)
}

func (c *memoryCache) Set(_ context.Context, slug string, t *Tenant) error {
	c.lru.Set(slug, t)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, slug string) error {
	c.lru.Delete(slug)
	return nil
}

func (c *memoryCache) Close() error {
	c.lru.Purge()
	return nil
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*Tenant, bool) {
	return nil, false
}

func (NoopCache) Set(context.Context, string, *Tenant) error {
	return nil
}

func (NoopCache) Delete(context.Context, string) error {
	return nil
}

func (NoopCache) Close() error {
	return nil
}
