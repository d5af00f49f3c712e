package tenant

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

type (
	tenantKey    struct{}
	subdomainKey struct{}
	boundKey     struct{}
)

// WithTenant stores the tenant resolved from the request host.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, t)
}

// FromContext returns the tenant resolved from the request host.
func FromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(tenantKey{}).(*Tenant)
	return t, ok && t != nil
}

// IDFromContext returns the ID of the resolved tenant.
func IDFromContext(ctx context.Context) (int64, bool) {
	t, ok := FromContext(ctx)
	if !ok {
		return 0, false
	}
	return t.ID, true
}

// MustFromContext panics if no tenant was resolved. Use it only behind RequireTenant.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// WithSubdomain stores the subdomain extracted from the request host.
func WithSubdomain(ctx context.Context, subdomain string) context.Context {
	return context.WithValue(ctx, subdomainKey{}, subdomain)
}

// SubdomainFromContext returns the request subdomain. An empty subdomain
// reports false.
func SubdomainFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subdomainKey{}).(string)
	return s, ok && s != ""
}

// WithBound stores a tenant bound from a route parameter.
func WithBound(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, boundKey{}, t)
}

// BoundFromContext returns the tenant bound from a route parameter by Bind.
func BoundFromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(boundKey{}).(*Tenant)
	return t, ok && t != nil
}

// LoggerExtractor returns a logger context extractor adding the resolved tenant.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		t, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.Group("tenant", logger.TenantID(t.ID), logger.TenantSlug(t.Slug)), true
	}
}
