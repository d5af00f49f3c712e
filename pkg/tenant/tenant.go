package tenant

import (
	"context"
	"time"
)

// Tenant is a customer organization sharing the application instance.
// Slug doubles as the subdomain the tenant is served from.
type Tenant struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider looks tenants up in the tenant directory.
type Provider interface {
	// GetBySlug returns the tenant registered under slug.
	// Returns ErrTenantNotFound if there is none; any other error
	// means the directory itself could not be queried.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(ctx context.Context, slug string) (*Tenant, error)

// GetBySlug calls f.
func (f ProviderFunc) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return f(ctx, slug)
}
