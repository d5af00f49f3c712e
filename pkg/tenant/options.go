package tenant

import (
	"errors"
	"log/slog"
	"net/http"
)

// ErrorHandler writes the response for a failed tenant lookup.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	errorHandler ErrorHandler
	skipPaths    []string
	logger       *slog.Logger
}

// Option configures Middleware, Bind and RequireTenant.
type Option func(*config)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithLogger sets the logger for lookup failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// defaultErrorHandler never exposes error details to the client.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrInvalidSlug):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrNoTenantInContext):
		http.Error(w, "Tenant required", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
