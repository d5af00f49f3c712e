package tenant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// Resolver maps request hosts to tenants of the directory.
type Resolver struct {
	baseDomain string
	provider   Provider
	cache      Cache
	logger     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBaseDomain sets the root domain tenants are served under (e.g. "example.com").
func WithBaseDomain(domain string) ResolverOption {
	return func(r *Resolver) {
		r.baseDomain = domain
	}
}

// WithCache sets the cache for resolved tenants. Nil disables caching.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) {
		if c == nil {
			c = NoopCache{}
		}
		r.cache = c
	}
}

// WithResolverLogger sets the logger used to report cache failures.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver looking tenants up through provider.
// Without WithCache every lookup hits the provider.
func NewResolver(provider Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider: provider,
		cache:    NoopCache{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve extracts the subdomain from host and looks up the matching active tenant.
// An empty subdomain means the host has no tenant segment. A nil tenant with a
// non-empty subdomain means nothing matched; that is not an error. Errors are
// returned only when the directory cannot be queried.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, *Tenant, error) {
	subdomain := SubdomainFromHost(host, r.baseDomain)
	if subdomain == "" {
		return "", nil, nil
	}

	t, err := r.Lookup(ctx, subdomain)
	if err != nil {
		return subdomain, nil, err
	}
	return subdomain, t, nil
}

// Lookup returns the active tenant registered under slug, or nil if there is none.
func (r *Resolver) Lookup(ctx context.Context, slug string) (*Tenant, error) {
	if !ValidSlug(slug) {
		return nil, nil
	}

	if t, ok := r.cache.Get(ctx, slug); ok {
		return t, nil
	}

	t, err := r.provider.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrDirectoryUnavailable, err)
	}

	if t == nil || !t.Active {
		return nil, nil
	}

	if err := r.cache.Set(ctx, slug, t); err != nil {
		r.logger.WarnContext(ctx, "failed to cache tenant",
			slog.String("slug", slug),
			logger.Error(err),
		)
	}
	return t, nil
}

// Forget evicts slug from the cache. Call it after the tenant changes in the directory.
func (r *Resolver) Forget(ctx context.Context, slug string) error {
	return r.cache.Delete(ctx, slug)
}
