package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// ReservedSubdomain is the conventional non-tenant entry point. Requests to it
// without a matching tenant are sent home silently.
const ReservedSubdomain = "www"

// Decision is the outcome of the guard for a single request.
type Decision uint8

const (
	// Pass forwards the request unchanged (no subdomain, not tenant scoped).
	Pass Decision = iota
	// RedirectHome sends the client to the public home page without a message.
	RedirectHome
	// RedirectHomeWithWarning sends the client home with a "not found" warning.
	RedirectHomeWithWarning
	// ScopeAndPass narrows authorization to the tenant and forwards the request.
	ScopeAndPass
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case RedirectHome:
		return "redirect_home"
	case RedirectHomeWithWarning:
		return "redirect_home_with_warning"
	case ScopeAndPass:
		return "scope_and_pass"
	default:
		return fmt.Sprintf("decision(%d)", uint8(d))
	}
}

// Decide maps a resolved subdomain and tenant to the guard outcome.
func Decide(subdomain string, t *Tenant) Decision {
	switch {
	case t != nil:
		return ScopeAndPass
	case subdomain == "":
		return Pass
	case subdomain == ReservedSubdomain:
		return RedirectHome
	default:
		return RedirectHomeWithWarning
	}
}

// Scoper narrows authorization checks to a single tenant for the rest of a request.
type Scoper interface {
	// ScopeTo returns a context whose authorization checks are limited to tenantID.
	ScopeTo(ctx context.Context, tenantID int64) context.Context
}

// NoopScoper is used when no authorization subsystem is installed.
// Tenant isolation is then only as strong as the handlers make it.
type NoopScoper struct{}

// ScopeTo returns ctx unchanged.
func (NoopScoper) ScopeTo(ctx context.Context, _ int64) context.Context {
	return ctx
}

// ScoperFunc adapts an ordinary function to the Scoper interface.
type ScoperFunc func(ctx context.Context, tenantID int64) context.Context

// ScopeTo calls f.
func (f ScoperFunc) ScopeTo(ctx context.Context, tenantID int64) context.Context {
	return f(ctx, tenantID)
}

// Redirector sends the client to url, carrying an optional user-visible warning.
type Redirector interface {
	Redirect(w http.ResponseWriter, r *http.Request, url, warning string) error
}

// HTTPRedirector issues a 303 See Other and drops the warning.
type HTTPRedirector struct{}

// Redirect writes the redirect response.
func (HTTPRedirector) Redirect(w http.ResponseWriter, r *http.Request, url, _ string) error {
	http.Redirect(w, r, url, http.StatusSeeOther)
	return nil
}

// WarningFunc builds the warning shown when no tenant matches subdomain.
type WarningFunc func(ctx context.Context, subdomain string) string

// DefaultWarning is the untranslated "not found" warning.
func DefaultWarning(_ context.Context, subdomain string) string {
	return fmt.Sprintf("The requested tenant [%s] was not found.", subdomain)
}

type guardConfig struct {
	homeURL    string
	scoper     Scoper
	redirector Redirector
	warning    WarningFunc
	logger     *slog.Logger
}

// GuardOption configures Guard.
type GuardOption func(*guardConfig)

// WithHomeURL sets the public home page. It must not live on a tenant
// subdomain, otherwise unmatched hosts would redirect to themselves.
func WithHomeURL(url string) GuardOption {
	return func(c *guardConfig) {
		if url != "" {
			c.homeURL = url
		}
	}
}

// WithScoper installs the authorization scoping capability.
func WithScoper(s Scoper) GuardOption {
	return func(c *guardConfig) {
		if s != nil {
			c.scoper = s
		}
	}
}

// WithRedirector replaces the redirect primitive.
func WithRedirector(rd Redirector) GuardOption {
	return func(c *guardConfig) {
		if rd != nil {
			c.redirector = rd
		}
	}
}

// WithWarning replaces the "not found" warning builder.
func WithWarning(fn WarningFunc) GuardOption {
	return func(c *guardConfig) {
		if fn != nil {
			c.warning = fn
		}
	}
}

// WithGuardLogger sets the guard logger.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(c *guardConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Guard enforces the tenant-presence policy on requests processed by
// Middleware: root-domain requests pass, unmatched subdomains are redirected
// home ("www" without a message, anything else with a warning), and requests
// for a resolved tenant continue with authorization scoped to that tenant.
func Guard(opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := &guardConfig{
		homeURL:    "/",
		scoper:     NoopScoper{},
		redirector: HTTPRedirector{},
		warning:    DefaultWarning,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subdomain, _ := SubdomainFromContext(ctx)
			t, _ := FromContext(ctx)

			switch Decide(subdomain, t) {
			case Pass:
				next.ServeHTTP(w, r)

			case RedirectHome:
				cfg.redirect(w, r, "")

			case RedirectHomeWithWarning:
				cfg.logger.DebugContext(ctx, "no tenant for subdomain", slog.String("subdomain", subdomain))
				cfg.redirect(w, r, cfg.warning(ctx, subdomain))

			case ScopeAndPass:
				scoped := cfg.scoper.ScopeTo(ctx, t.ID)
				if scoped == nil {
					scoped = ctx
				}
				next.ServeHTTP(w, r.WithContext(scoped))
			}
		})
	}
}

func (c *guardConfig) redirect(w http.ResponseWriter, r *http.Request, warning string) {
	if err := c.redirector.Redirect(w, r, c.homeURL, warning); err != nil {
		c.logger.ErrorContext(r.Context(), "tenant guard redirect failed",
			slog.String("url", c.homeURL),
			logger.Error(fmt.Errorf("%w: %w", ErrRedirectFailed, err)),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
