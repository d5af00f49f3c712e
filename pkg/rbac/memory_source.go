package rbac

import (
	"context"
	"maps"
	"slices"
)

// memorySource serves a fixed role set.
type memorySource struct {
	roles map[string]Role
}

// NewInMemRoleSource returns a RoleSource over a private copy of roles.
func NewInMemRoleSource(roles map[string]Role) RoleSource {
	cp := make(map[string]Role, len(roles))
	for name, r := range roles {
		cp[name] = Role{
			Permissions: slices.Clone(r.Permissions),
			Inherits:    slices.Clone(r.Inherits),
		}
	}
	return &memorySource{roles: cp}
}

// Load returns a copy of the stored roles.
func (s *memorySource) Load(context.Context) (map[string]Role, error) {
	return maps.Clone(s.roles), nil
}
