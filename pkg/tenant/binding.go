package tenant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// DefaultRouteParam is the conventional route parameter bound to a tenant.
const DefaultRouteParam = "tenant"

// Bind loads the tenant named by the chi route parameter param and stores it
// with WithBound. Values not matching SlugPattern and unknown slugs end the
// request with 404; directory failures with 500. Inactive tenants are bound
// too, since administrative routes must reach them.
func Bind(param string, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	if param == "" {
		param = DefaultRouteParam
	}
	cfg := newConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := chi.URLParam(r, param)
			if !ValidSlug(value) {
				cfg.errorHandler(w, r, fmt.Errorf("%w: %q", ErrInvalidSlug, value))
				return
			}

			t, err := provider.GetBySlug(r.Context(), value)
			if err != nil {
				if !errors.Is(err, ErrTenantNotFound) {
					cfg.logger.ErrorContext(r.Context(), "tenant binding failed",
						slog.String("param", param),
						slog.String("slug", value),
						logger.Error(err),
					)
					err = errors.Join(ErrDirectoryUnavailable, err)
				}
				cfg.errorHandler(w, r, err)
				return
			}
			if t == nil {
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithBound(r.Context(), t)))
		})
	}
}
