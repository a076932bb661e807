package nav

import (
	"slices"

	"github.com/wolfeidau/adminconsole/internal/models"
	"github.com/wolfeidau/adminconsole/internal/roles"
)

// Select returns the navigation menu for a role. system_admin and
// tenant_admin get their own menus, every other role (including none) gets
// the user menu. The result is a copy the caller may modify.
func Select(c *roles.Catalog, role models.Role) []roles.NavItem {
	switch role {
	case models.RoleSystemAdmin, models.RoleTenantAdmin:
		return slices.Clone(c.Navigation[role])
	default:
		return slices.Clone(c.Navigation[models.RoleUser])
	}
}

// SelectFor returns the menu for the role in the session snapshot.
// Sessions that are not authorized get no menu.
func SelectFor(c *roles.Catalog, s models.Session) []roles.NavItem {
	if !s.Authorized() {
		return nil
	}
	return Select(c, s.Role)
}
