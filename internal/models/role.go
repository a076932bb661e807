package models

// Role is one of the closed set of authorization tiers.
// The zero value means no role is assigned.
type Role string

const (
	RoleSystemAdmin Role = "system_admin" // Superuser, satisfies every check
	RoleTenantAdmin Role = "tenant_admin" // Manages a single tenant
	RoleUser        Role = "user"         // Default tier for any valid identity
	RoleNone        Role = ""
)

// Roles lists the known roles, most privileged first.
var Roles = []Role{RoleSystemAdmin, RoleTenantAdmin, RoleUser}

// Valid returns true if the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleTenantAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts a stored role string into a Role.
// Unknown values map to RoleNone.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleNone
	}
	return r
}
