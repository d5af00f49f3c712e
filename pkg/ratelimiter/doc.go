// Package ratelimiter implements token bucket rate limiting with in-memory and
// Redis backed stores, plus HTTP middleware that keys buckets by client IP or
// any other request attribute.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       30,
//		RefillRate:     1,
//		RefillInterval: 2 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(b, ratelimiter.ByClientIP, log))
//
// A rejected request receives 429 with Retry-After and the X-RateLimit-*
// headers. When the store fails the request is let through and the error is
// logged.
package ratelimiter
