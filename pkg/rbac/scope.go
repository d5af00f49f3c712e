package rbac

import "context"

// Scoper narrows authorization checks to a tenant. It satisfies tenant.Scoper.
type Scoper struct{}

// NewScoper returns the scoping capability installed into the tenant guard.
func NewScoper() Scoper {
	return Scoper{}
}

// ScopeTo returns a context limited to tenantID. A context already scoped
// keeps its original tenant: narrowing is never widened or switched within a request.
func (Scoper) ScopeTo(ctx context.Context, tenantID int64) context.Context {
	if _, ok := ScopeFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, scopeCtxKey{}, tenantID)
}

func checkScope(ctx context.Context, tenantID int64) error {
	if scoped, ok := ScopeFromContext(ctx); ok && scoped != tenantID {
		return ErrOutOfScope
	}
	return nil
}
