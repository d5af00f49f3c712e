package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// RequireOption configures Require.
type RequireOption func(*requireConfig)

type requireConfig struct {
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// WithErrorHandler replaces the default plain-text rejection.
func WithErrorHandler(h ErrorHandler) RequireOption {
	return func(c *requireConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithLogger sets the logger for denied requests.
func WithLogger(l *slog.Logger) RequireOption {
	return func(c *requireConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Require rejects requests whose role in context lacks permission.
// A missing role is answered with 401, a missing permission with 403.
func Require(auth Authorizer, permission string, opts ...RequireOption) func(http.Handler) http.Handler {
	cfg := &requireConfig{
		errorHandler: defaultErrorHandler,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.CanFromContext(r.Context(), permission); err != nil {
				cfg.logger.DebugContext(r.Context(), "permission denied",
					slog.String("permission", permission),
					logger.Error(err),
				)
				cfg.errorHandler(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StatusCode maps authorization errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRoleNotInContext):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInsufficientPermissions), errors.Is(err, ErrInvalidRole), errors.Is(err, ErrOutOfScope):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	code := StatusCode(err)
	http.Error(w, http.StatusText(code), code)
}
