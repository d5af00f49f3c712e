package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/audit"
	"github.com/dmitrymomot/tenants/pkg/clientip"
	"github.com/dmitrymomot/tenants/pkg/flash"
	"github.com/dmitrymomot/tenants/pkg/httpserver"
	"github.com/dmitrymomot/tenants/pkg/i18n"
	"github.com/dmitrymomot/tenants/pkg/logger"
	"github.com/dmitrymomot/tenants/pkg/ratelimiter"
	"github.com/dmitrymomot/tenants/pkg/rbac"
	"github.com/dmitrymomot/tenants/pkg/redirect"
	"github.com/dmitrymomot/tenants/pkg/requestid"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

// routerDeps are the collaborators of the HTTP stack.
type routerDeps struct {
	Log        *slog.Logger
	Tenant     tenant.Config
	Resolver   *tenant.Resolver
	Directory  tenants.Directory
	Authorizer rbac.Authorizer
	Translator *i18n.Translator
	Flash      *flash.Manager
	AdminToken string
	AdminRole  string
	Audit      *audit.Logger
	History    tenants.History
	// AdminLimit throttles the admin API per client IP when set.
	AdminLimit *ratelimiter.Bucket
	Checks     map[string]httpserver.Check
}

// newRouter declares the middleware stack in its fixed order: request id,
// client ip, access log, i18n, tenant resolution, tenant guard. Health probes
// sit outside the tenant stack so they answer on any host. The admin API is
// rate limited before the token check.
func newRouter(d routerDeps) http.Handler {
	var scoper tenant.Scoper = tenant.NoopScoper{}
	if d.Tenant.ScopeEnabled {
		scoper = rbac.NewScoper()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware(), accessLog(d.Log), middleware.Recoverer)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(d.Log, d.Checks))

	r.Group(func(r chi.Router) {
		r.Use(
			i18n.Middleware(d.Translator),
			tenant.Middleware(d.Resolver, tenant.WithLogger(d.Log)),
			tenant.Guard(
				tenant.WithHomeURL(d.Tenant.Home()),
				tenant.WithScoper(scoper),
				tenant.WithRedirector(redirect.New(d.Flash, redirect.WithLogger(d.Log))),
				tenant.WithWarning(notFoundWarning(d.Translator)),
				tenant.WithGuardLogger(d.Log),
			),
		)

		r.Get("/", home(d.Translator, d.Flash, d.Log))

		var admin []func(http.Handler) http.Handler
		if d.AdminLimit != nil {
			admin = append(admin, ratelimiter.Middleware(d.AdminLimit, ratelimiter.ByClientIP, d.Log))
		}
		admin = append(admin, adminAuth(d.AdminToken, d.AdminRole))
		r.With(admin...).Mount("/admin/tenants", tenants.Router(tenants.RouterOptions{
			Directory:   d.Directory,
			Authorizer:  d.Authorizer,
			Invalidator: d.Resolver,
			Audit:       d.Audit,
			History:     d.History,
			Logger:      d.Log,
		}))
	})

	return r
}

// notFoundWarning renders the guard warning in the request locale.
func notFoundWarning(tr *i18n.Translator) tenant.WarningFunc {
	return func(ctx context.Context, subdomain string) string {
		return tr.Tc(ctx, "tenants.resource_not_found",
			"resource", tr.Tc(ctx, "tenants.tenant"),
			"identifier", subdomain,
		)
	}
}

// adminAuth grants role to requests carrying the admin bearer token. Other
// requests continue without a role and are rejected by the admin routes.
func adminAuth(token, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if ok && token != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1 {
				r = r.WithContext(rbac.SetRoleToContext(r.Context(), role))
			}
			next.ServeHTTP(w, r)
		})
	}
}

type homePage struct {
	Title    string          `json:"title"`
	Locale   string          `json:"locale"`
	Tenant   *tenant.Tenant  `json:"tenant,omitempty"`
	Messages []flash.Message `json:"messages,omitempty"`
}

func home(tr *i18n.Translator, fm *flash.Manager, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page := homePage{
			Title:  tr.Tc(ctx, "tenants.home.title"),
			Locale: i18n.GetLocale(ctx),
		}
		if t, ok := tenant.FromContext(ctx); ok {
			page.Tenant = t
		}
		if fm != nil {
			msgs, err := fm.Pop(w, r)
			if err != nil {
				log.WarnContext(ctx, "discarding unreadable flash cookie", logger.Error(err))
			}
			page.Messages = msgs
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(page)
	}
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("host", r.Host),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
