// Package tenant resolves the tenant of an HTTP request from its subdomain and
// enforces the tenant-presence policy for the rest of the request.
//
// # Architecture
//
// Three pieces run in a fixed order in front of the application routes:
//
// 1. Middleware - extracts the subdomain from the host, looks the tenant up
// through a Resolver (Provider plus Cache) and stores both on the context
// 2. Guard - passes root-domain traffic, redirects unmatched subdomains home
// and narrows authorization to the resolved tenant through a Scoper
// 3. Bind - route-level binding of the {tenant} parameter for admin routes
//
// A subdomain without a matching active tenant is a normal outcome, not an
// error. Only failures of the tenant directory itself are reported as errors
// and end the request with 500; they are never turned into "not found".
//
// # Usage
//
//	resolver := tenant.NewResolver(store,
//		tenant.WithBaseDomain("example.com"),
//		tenant.WithCache(tenant.NewMemoryCache(1000, 5*time.Minute)),
//	)
//
//	r := chi.NewRouter()
//	r.Use(
//		tenant.Middleware(resolver),
//		tenant.Guard(
//			tenant.WithHomeURL("https://example.com/"),
//			tenant.WithScoper(rbac.NewScoper()),
//		),
//	)
//
//	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenant.FromContext(r.Context())
//		if !ok {
//			// root domain request
//		}
//		_ = t
//	})
//
// # Guard outcomes
//
//   - no subdomain: Pass
//   - "www" without tenant: RedirectHome
//   - any other subdomain without tenant: RedirectHomeWithWarning
//   - resolved tenant: ScopeAndPass
//
// Without WithScoper the guard uses NoopScoper, so tenant isolation then
// depends entirely on the handlers.
//
// # Caching
//
// NewMemoryCache keeps pointers as stored, so resolving the same slug twice
// yields the same *Tenant. RedisCache shares entries between instances.
// Call Resolver.Forget after a tenant changes in the directory.
package tenant
