package rbac

// MaxInheritanceDepth bounds how deep role inheritance may nest.
const MaxInheritanceDepth = 10

// Permissions of the tenant directory.
const (
	PermTenantsList   = "tenants.list"
	PermTenantsCreate = "tenants.create"
	PermTenantsUpdate = "tenants.update"
	PermTenantsDelete = "tenants.delete"
	PermTenantsAll    = "tenants.*"
)

// Role is a named set of permissions with optional inheritance.
type Role struct {
	// Permissions granted directly. Supports "*" and "namespace.*" wildcards.
	Permissions []string

	// Inherits lists roles whose permissions are included.
	Inherits []string
}

// Can reports whether the role grants permission directly, ignoring inheritance.
func (r Role) Can(permission string) bool {
	return grants(r.Permissions, permission)
}

// DefaultRoles is the role set used by the tenants service when no other source is configured.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		"viewer": {
			Permissions: []string{PermTenantsList},
		},
		"manager": {
			Permissions: []string{PermTenantsCreate, PermTenantsUpdate},
			Inherits:    []string{"viewer"},
		},
		"admin": {
			Permissions: []string{PermTenantsAll},
			Inherits:    []string{"manager"},
		},
	}
}
