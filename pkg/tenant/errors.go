package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches a slug.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidSlug is returned when a slug does not match SlugPattern.
	ErrInvalidSlug = errors.New("invalid tenant slug")

	// ErrNoTenantInContext is returned when a tenant is required but absent.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrDirectoryUnavailable wraps failures of the tenant directory itself.
	ErrDirectoryUnavailable = errors.New("tenant directory unavailable")

	// ErrRedirectFailed is returned when the guard cannot issue a redirect.
	ErrRedirectFailed = errors.New("tenant guard redirect failed")
)
