// Package redis connects to Redis with go-redis v9. The tenants service uses
// it as an optional shared cache for resolved tenants.
//
//	client, err := redis.Connect(ctx, cfg)
//	cache := tenant.NewRedisCache(client, "tenants:", 5*time.Minute)
package redis
