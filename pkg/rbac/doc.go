// Package rbac provides role-based access control with tenant scoping.
//
// Roles grant dot-separated permissions ("tenants.list") and may inherit
// from other roles. A trailing wildcard ("tenants.*") grants a whole
// namespace and "*" grants everything. Inheritance is flattened once in
// NewAuthorizer, so checks are plain slice scans.
//
//	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
//	ctx = rbac.SetRoleToContext(ctx, "manager")
//	err = auth.CanFromContext(ctx, rbac.PermTenantsCreate)
//
// # Tenant scope
//
// Scoper is the capability the tenant guard calls once a request is bound
// to a tenant. It records the tenant ID on the request context and
// CanInScope rejects checks against any other tenant with ErrOutOfScope.
// Requests that were never scoped (root domain, CLI) are not restricted.
//
//	guard := tenant.Guard(tenant.WithScoper(rbac.NewScoper()))
//
// Require wraps a handler with a permission check on the role in context.
package rbac
