package rbac

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
)

// Authorizer checks role permissions, including inherited and wildcard grants.
type Authorizer interface {
	// Can checks if a role has the specified permission (direct or inherited).
	Can(roleName, permission string) error

	// CanAny checks if a role has any of the provided permissions.
	CanAny(roleName string, permissions ...string) error

	// CanAll checks if a role has all of the provided permissions.
	CanAll(roleName string, permissions ...string) error

	// CanFromContext checks if the role in context has the specified permission.
	CanFromContext(ctx context.Context, permission string) error

	// CanInScope checks the role in context and, when the request is scoped
	// to a tenant, that tenantID is that tenant.
	CanInScope(ctx context.Context, permission string, tenantID int64) error

	// VerifyRole returns an error if the given role does not exist.
	VerifyRole(role string) error

	// GetRoles returns role names, base roles first.
	GetRoles() []string
}

// RoleSource provides role definitions.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

type authorizer struct {
	// permissions holds the flattened grants of each role. Read-only after construction.
	permissions map[string][]string
	roles       []string
}

// NewAuthorizer loads roles from source and flattens inheritance up front.
func NewAuthorizer(ctx context.Context, source RoleSource) (Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("rbac: load roles: %w", err)
	}

	depths := make(map[string]int, len(roles))
	for name := range roles {
		if _, err := roleDepth(name, roles, depths, nil); err != nil {
			return nil, err
		}
	}

	a := &authorizer{
		permissions: make(map[string][]string, len(roles)),
		roles:       make([]string, 0, len(roles)),
	}
	for name := range roles {
		a.permissions[name] = normalize(collect(name, roles, make(map[string]bool)))
		a.roles = append(a.roles, name)
	}
	slices.SortFunc(a.roles, func(x, y string) int {
		return cmp.Or(cmp.Compare(depths[x], depths[y]), cmp.Compare(x, y))
	})

	return a, nil
}

func (a *authorizer) Can(roleName, permission string) error {
	granted, ok := a.permissions[roleName]
	if !ok {
		return ErrInvalidRole
	}
	if !grants(granted, permission) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanAny(roleName string, permissions ...string) error {
	granted, ok := a.permissions[roleName]
	if !ok {
		return ErrInvalidRole
	}
	if len(permissions) > 0 && !grantsAny(granted, permissions) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanAll(roleName string, permissions ...string) error {
	granted, ok := a.permissions[roleName]
	if !ok {
		return ErrInvalidRole
	}
	if !grantsAll(granted, permissions) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanFromContext(ctx context.Context, permission string) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	return a.Can(role, permission)
}

func (a *authorizer) CanInScope(ctx context.Context, permission string, tenantID int64) error {
	if err := a.CanFromContext(ctx, permission); err != nil {
		return err
	}
	return checkScope(ctx, tenantID)
}

func (a *authorizer) VerifyRole(role string) error {
	if _, ok := a.permissions[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

func (a *authorizer) GetRoles() []string {
	return slices.Clone(a.roles)
}

// collect gathers direct and inherited permissions of a role.
func collect(name string, roles map[string]Role, seen map[string]bool) []string {
	if seen[name] {
		return nil
	}
	seen[name] = true

	role, ok := roles[name]
	if !ok {
		return nil
	}
	perms := slices.Clone(role.Permissions)
	for _, parent := range role.Inherits {
		perms = append(perms, collect(parent, roles, seen)...)
	}
	return perms
}

// roleDepth returns the inheritance depth of a role, failing on cycles and
// on chains deeper than MaxInheritanceDepth. path holds the roles being visited.
func roleDepth(name string, roles map[string]Role, depths map[string]int, path []string) (int, error) {
	if d, ok := depths[name]; ok {
		return d, nil
	}
	if slices.Contains(path, name) {
		return 0, errors.Join(ErrCircularInheritance,
			fmt.Errorf("circular inheritance detected: %s -> %s", path[len(path)-1], name))
	}

	depth := 0
	path = append(path, name)
	for _, parent := range roles[name].Inherits {
		d, err := roleDepth(parent, roles, depths, path)
		if err != nil {
			return 0, err
		}
		depth = max(depth, d+1)
	}
	if depth > MaxInheritanceDepth {
		return 0, errors.Join(ErrCircularInheritance,
			fmt.Errorf("inheritance depth exceeds maximum allowed depth of %d", MaxInheritanceDepth))
	}

	depths[name] = depth
	return depth, nil
}
