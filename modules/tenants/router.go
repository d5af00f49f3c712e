package tenants

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/logger"
	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

// Directory is the tenant storage the admin API works on. *Store implements it.
type Directory interface {
	tenant.Provider
	List(ctx context.Context, p ListParams) ([]*tenant.Tenant, int, error)
	Create(ctx context.Context, in Input) (*tenant.Tenant, error)
	Update(ctx context.Context, id int64, in Input) (*tenant.Tenant, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, slug string, active bool) (*tenant.Tenant, error)
}

// Invalidator drops cached lookups after a tenant changes. *tenant.Resolver implements it.
type Invalidator interface {
	Forget(ctx context.Context, slug string) error
}

// History reads the audit trail of one resource. *AuditStore implements it.
type History interface {
	History(ctx context.Context, resource, id string, limit int) ([]audit.Event, error)
}

// RouterOptions wires the admin API. Directory and Authorizer are required.
// Without Audit no events are recorded; without History the events route is
// not mounted.
type RouterOptions struct {
	Directory   Directory
	Authorizer  rbac.Authorizer
	Invalidator Invalidator
	Audit       *audit.Logger
	History     History
	Logger      *slog.Logger
}

// Router mounts the tenant admin API:
//
//	GET    /                    tenants.list
//	POST   /                    tenants.create
//	GET    /{tenant}            tenants.list
//	PUT    /{tenant}            tenants.update
//	DELETE /{tenant}            tenants.delete
//	POST   /{tenant}/activate   tenants.update
//	POST   /{tenant}/deactivate tenants.update
//	GET    /{tenant}/events     tenants.list
//
// {tenant} is bound with tenant.Bind, so inactive tenants stay reachable.
// When the request context is scoped to a tenant, only that tenant can be
// read or changed and creation is refused.
func Router(opts RouterOptions) chi.Router {
	h := &handler{
		dir:  opts.Directory,
		auth: opts.Authorizer,
		inv:  opts.Invalidator,
		aud:  opts.Audit,
		hist: opts.History,
		log:  opts.Logger,
	}
	if h.log == nil {
		h.log = slog.New(slog.DiscardHandler)
	}
	h.log = h.log.With(logger.Component("tenants.admin"))

	deny := rbac.WithErrorHandler(h.fail)
	r := chi.NewRouter()

	r.With(rbac.Require(h.auth, rbac.PermTenantsList, deny)).Get("/", h.list)
	r.With(rbac.Require(h.auth, rbac.PermTenantsCreate, deny)).Post("/", h.create)

	r.Route("/{"+tenant.DefaultRouteParam+"}", func(r chi.Router) {
		r.Use(tenant.Bind(tenant.DefaultRouteParam, h.dir,
			tenant.WithErrorHandler(h.fail),
			tenant.WithLogger(h.log),
		))

		r.With(h.require(rbac.PermTenantsList)).Get("/", h.show)
		r.With(h.require(rbac.PermTenantsUpdate)).Put("/", h.update)
		r.With(h.require(rbac.PermTenantsDelete)).Delete("/", h.delete)
		r.With(h.require(rbac.PermTenantsUpdate)).Post("/activate", h.setActive(true))
		r.With(h.require(rbac.PermTenantsUpdate)).Post("/deactivate", h.setActive(false))
		if h.hist != nil {
			r.With(h.require(rbac.PermTenantsList)).Get("/events", h.events)
		}
	})

	return r
}

// require checks permission against the bound tenant, honoring the request scope.
func (h *handler) require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, ok := tenant.BoundFromContext(r.Context())
			if !ok {
				h.fail(w, r, tenant.ErrTenantNotFound)
				return
			}
			if err := h.auth.CanInScope(r.Context(), permission, t.ID); err != nil {
				h.fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
