package rbac

import "context"

type (
	roleCtxKey  struct{}
	scopeCtxKey struct{}
)

// SetRoleToContext stores the caller's role in the context.
func SetRoleToContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// GetRoleFromContext retrieves the caller's role from the context.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(string)
	return role, ok
}

// ScopeFromContext returns the tenant the request's authorization is limited to.
func ScopeFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(scopeCtxKey{}).(int64)
	return id, ok
}
