package rbac

import (
	"slices"
	"strings"
)

const (
	wildcard  = "*"
	delimiter = "."
)

// matches reports whether pattern grants permission.
// "*" grants everything, "tenants.*" grants every permission under "tenants.".
func matches(permission, pattern string) bool {
	if permission == "" {
		return false
	}
	if pattern == wildcard || pattern == permission {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, delimiter+wildcard); ok {
		return strings.HasPrefix(permission, prefix+delimiter)
	}
	return false
}

func grants(granted []string, permission string) bool {
	for _, p := range granted {
		if matches(permission, p) {
			return true
		}
	}
	return false
}

func grantsAny(granted, required []string) bool {
	for _, p := range required {
		if grants(granted, p) {
			return true
		}
	}
	return false
}

func grantsAll(granted, required []string) bool {
	for _, p := range required {
		if !grants(granted, p) {
			return false
		}
	}
	return true
}

// normalize returns the sorted set of permissions with duplicates removed.
func normalize(perms []string) []string {
	if len(perms) == 0 {
		return nil
	}
	out := slices.Clone(perms)
	slices.Sort(out)
	return slices.Compact(out)
}
