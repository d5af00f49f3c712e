// Package cache provides a generic, thread-safe LRU cache with per-entry
// expiration. It backs the in-process tenant cache and keeps pointer identity:
// a value stored with Set is returned unchanged by Get until it expires or is
// evicted.
//
// # Usage
//
//	c := cache.NewLRU[string, *tenant.Tenant](1000, 5*time.Minute)
//	c.Set("acme", t)
//	if v, ok := c.Get("acme"); ok {
//		// v == t
//	}
//	c.Delete("acme")
package cache
