package redirect

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/tenants/pkg/flash"
	"github.com/dmitrymomot/tenants/pkg/logger"
)

// Redirector sends the client to another URL in the form its client library
// understands, carrying an optional warning as a flash message.
// It satisfies tenant.Redirector.
type Redirector struct {
	flash  *flash.Manager
	code   int
	logger *slog.Logger
}

// Option configures a Redirector.
type Option func(*Redirector)

// WithStatusCode sets the status for plain HTTP redirects. Default 303.
func WithStatusCode(code int) Option {
	return func(rd *Redirector) {
		if code >= 300 && code < 400 {
			rd.code = code
		}
	}
}

// WithLogger sets the logger used when a flash message cannot be stored.
func WithLogger(l *slog.Logger) Option {
	return func(rd *Redirector) {
		if l != nil {
			rd.logger = l
		}
	}
}

// New returns a Redirector. A nil flash manager drops warnings.
func New(f *flash.Manager, opts ...Option) *Redirector {
	rd := &Redirector{
		flash:  f,
		code:   http.StatusSeeOther,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Redirect stores warning (if any) and redirects to url.
// A warning that cannot be stored is logged; the redirect still happens.
func (rd *Redirector) Redirect(w http.ResponseWriter, r *http.Request, url, warning string) error {
	if warning != "" && rd.flash != nil {
		if err := rd.flash.Set(w, flash.Warning(warning)); err != nil {
			rd.logger.WarnContext(r.Context(), "flash message dropped", logger.Error(err))
		}
	}

	switch {
	case IsDataStar(r):
		return datastar.NewSSE(w, r).Redirect(url)
	case IsHTMX(r):
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return nil
	default:
		http.Redirect(w, r, url, rd.code)
		return nil
	}
}
