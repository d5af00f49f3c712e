package tenants

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/logger"
	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

const (
	auditResource = "tenant"

	ActionCreate     = "tenant.create"
	ActionUpdate     = "tenant.update"
	ActionDelete     = "tenant.delete"
	ActionActivate   = "tenant.activate"
	ActionDeactivate = "tenant.deactivate"
)

type handler struct {
	dir  Directory
	auth rbac.Authorizer
	inv  Invalidator
	aud  *audit.Logger
	hist History
	log  *slog.Logger
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if scope, ok := rbac.ScopeFromContext(ctx); ok {
		data := []*tenant.Tenant{}
		if t, ok := tenant.FromContext(ctx); ok && t.ID == scope {
			data = append(data, t)
		}
		writeJSON(w, http.StatusOK, Response{
			Data: data,
			Meta: map[string]any{"total": len(data), "limit": len(data), "offset": 0},
		})
		return
	}

	p, err := listParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	list, total, err := h.dir.List(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []*tenant.Tenant{}
	}

	writeJSON(w, http.StatusOK, Response{
		Data: list,
		Meta: map[string]any{"total": total, "limit": p.Limit, "offset": p.Offset},
	})
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, scoped := rbac.ScopeFromContext(ctx); scoped {
		h.fail(w, r, rbac.ErrOutOfScope)
		return
	}

	var in Input
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := in.Normalize()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.dir.Create(ctx, in)
	if err != nil {
		h.record(r, ActionCreate, "", err, audit.WithMetadata("slug", in.Slug))
		h.fail(w, r, err)
		return
	}

	h.log.InfoContext(ctx, "tenant created", logger.TenantID(t.ID), logger.TenantSlug(t.Slug))
	h.record(r, ActionCreate, resourceID(t.ID), nil, audit.WithMetadata("slug", t.Slug))
	h.forget(r, t.Slug)
	writeJSON(w, http.StatusCreated, Response{Data: t})
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	t, _ := tenant.BoundFromContext(r.Context())
	writeJSON(w, http.StatusOK, Response{Data: t})
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, _ := tenant.BoundFromContext(ctx)

	var in Input
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Slug == "" {
		in.Slug = current.Slug
	}
	in, err := in.Normalize()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	t, err := h.dir.Update(ctx, current.ID, in)
	if err != nil {
		h.record(r, ActionUpdate, resourceID(current.ID), err)
		h.fail(w, r, err)
		return
	}

	h.log.InfoContext(ctx, "tenant updated", logger.TenantID(t.ID), logger.TenantSlug(t.Slug))
	h.record(r, ActionUpdate, resourceID(t.ID), nil,
		audit.WithMetadata("slug", map[string]string{"from": current.Slug, "to": t.Slug}),
		audit.WithMetadata("name", map[string]string{"from": current.Name, "to": t.Name}),
	)
	h.forget(r, current.Slug)
	if t.Slug != current.Slug {
		h.forget(r, t.Slug)
	}
	writeJSON(w, http.StatusOK, Response{Data: t})
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, _ := tenant.BoundFromContext(ctx)

	if err := h.dir.Delete(ctx, t.ID); err != nil {
		h.record(r, ActionDelete, resourceID(t.ID), err)
		h.fail(w, r, err)
		return
	}

	h.log.InfoContext(ctx, "tenant deleted", logger.TenantID(t.ID), logger.TenantSlug(t.Slug))
	h.record(r, ActionDelete, resourceID(t.ID), nil, audit.WithMetadata("slug", t.Slug))
	h.forget(r, t.Slug)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		current, _ := tenant.BoundFromContext(ctx)

		action := ActionDeactivate
		if active {
			action = ActionActivate
		}

		t, err := h.dir.SetActive(ctx, current.Slug, active)
		if err != nil {
			h.record(r, action, resourceID(current.ID), err)
			h.fail(w, r, err)
			return
		}

		h.log.InfoContext(ctx, "tenant availability changed",
			logger.TenantID(t.ID),
			logger.TenantSlug(t.Slug),
			slog.Bool("active", t.Active),
		)
		h.record(r, action, resourceID(t.ID), nil, audit.WithMetadata("slug", t.Slug))
		h.forget(r, t.Slug)
		writeJSON(w, http.StatusOK, Response{Data: t})
	}
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	t, _ := tenant.BoundFromContext(r.Context())

	p, err := listParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	events, err := h.hist.History(r.Context(), auditResource, resourceID(t.ID), p.Limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, Response{Data: events, Meta: map[string]any{"limit": p.Limit}})
}

// record appends to the audit trail. A nil err records success. Audit
// failures are logged and never fail the request.
func (h *handler) record(r *http.Request, action, id string, err error, opts ...audit.EventOption) {
	if h.aud == nil {
		return
	}
	opts = append(opts, audit.WithResource(auditResource, id))

	var aerr error
	if err != nil {
		aerr = h.aud.LogError(r.Context(), action, err, opts...)
	} else {
		aerr = h.aud.Log(r.Context(), action, opts...)
	}
	if aerr != nil {
		h.log.WarnContext(r.Context(), "failed to record audit event",
			slog.String("action", action),
			logger.Error(aerr),
		)
	}
}

func resourceID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// forget evicts a cached lookup. The directory is already updated, so a
// failure only delays visibility until the cache entry expires.
func (h *handler) forget(r *http.Request, slug string) {
	if h.inv == nil {
		return
	}
	if err := h.inv.Forget(r.Context(), slug); err != nil {
		h.log.WarnContext(r.Context(), "failed to invalidate tenant cache",
			logger.TenantSlug(slug),
			logger.Error(err),
		)
	}
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "tenant admin request failed", logger.Error(err))
	}
	writeJSON(w, status, body)
}

func listParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	p := ListParams{Limit: defaultLimit}
	errs := ValidationError{}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs.add("limit", "must be a positive integer")
		}
		p.Limit = min(n, maxLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs.add("offset", "must be a non-negative integer")
		}
		p.Offset = n
	}
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs.add("active", "must be a boolean")
		}
		p.Active = &b
	}

	if len(errs) > 0 {
		return p, errs
	}
	return p, nil
}
