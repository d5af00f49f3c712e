// Package tenants is the tenant directory: a PostgreSQL store with embedded
// goose migrations and a chi admin API for managing tenants.
//
//	store := tenants.NewStore(pool)
//	resolver := tenant.NewResolver(store, tenant.WithBaseDomain("example.com"))
//
//	r.Mount("/admin/tenants", tenants.Router(tenants.RouterOptions{
//		Directory:   store,
//		Authorizer:  auth,
//		Invalidator: resolver,
//		Logger:      log,
//	}))
package tenants
