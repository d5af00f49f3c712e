package tenant

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// Middleware resolves the tenant from the request host and stores the
// subdomain and tenant on the request context for downstream handlers.
// Unmatched subdomains are forwarded without a tenant; deciding what to do
// with them is Guard's job. Directory failures are not masked: they go to
// the error handler (500 by default).
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := newConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			subdomain, t, err := resolver.Resolve(ctx, r.Host)
			if err != nil {
				cfg.logger.ErrorContext(ctx, "tenant resolution failed",
					slog.String("host", r.Host),
					logger.Error(err),
				)
				cfg.errorHandler(w, r, err)
				return
			}

			if subdomain != "" {
				ctx = WithSubdomain(ctx, subdomain)
			}
			if t != nil {
				ctx = WithTenant(ctx, t)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests that reached it without a resolved tenant.
func RequireTenant(opts ...Option) func(http.Handler) http.Handler {
	cfg := newConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				cfg.errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
