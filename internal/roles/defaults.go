package roles

import (
	"github.com/wolfeidau/adminconsole/internal/guard"
	"github.com/wolfeidau/adminconsole/internal/models"
)

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Permissions: map[models.Role]models.PermissionSet{
			models.RoleSystemAdmin: models.AllPermissionSet(),
			models.RoleTenantAdmin: models.NewPermissionSet(
				"organization.read", "organization.create", "organization.update", "organization.delete",
				"user.read", "user.create", "user.update", "user.delete",
				"role.read", "role.assign",
				"privilege.read",
				"legal_entity.read", "legal_entity.create", "legal_entity.update",
				"tenant.read",
				"profile.read", "profile.update",
			),
			models.RoleUser: models.NewPermissionSet(
				"organization.read",
				"user.read",
				"legal_entity.read",
				"profile.read", "profile.update",
			),
		},
		Navigation: map[models.Role][]NavItem{
			models.RoleSystemAdmin: {
				{Label: "Dashboard", Path: "/dashboard", Icon: "dashboard"},
				{Label: "Tenants", Path: "/tenants", Icon: "domain"},
				{Label: "Organizations", Path: "/organizations", Icon: "business"},
				{Label: "Users", Path: "/users", Icon: "people"},
				{Label: "Roles", Path: "/roles", Icon: "security"},
				{Label: "Privileges", Path: "/privileges", Icon: "vpn_key"},
				{Label: "Legal Entities", Path: "/legal-entities", Icon: "account_balance"},
				{Label: "Settings", Path: "/settings", Icon: "settings"},
			},
			models.RoleTenantAdmin: {
				{Label: "Dashboard", Path: "/dashboard", Icon: "dashboard"},
				{Label: "Organizations", Path: "/organizations", Icon: "business"},
				{Label: "Users", Path: "/users", Icon: "people"},
				{Label: "Roles", Path: "/roles", Icon: "security"},
				{Label: "Legal Entities", Path: "/legal-entities", Icon: "account_balance"},
				{Label: "Profile", Path: "/profile", Icon: "person"},
			},
			models.RoleUser: {
				{Label: "Dashboard", Path: "/dashboard", Icon: "dashboard"},
				{Label: "My Organization", Path: "/organization", Icon: "business"},
				{Label: "Profile", Path: "/profile", Icon: "person"},
			},
		},
		Routes: []guard.Route{
			{Name: "login", Path: guard.LoginPath, Access: guard.AccessPublicOnly},
			{Name: "dashboard", Path: guard.DashboardPath},
			{Name: "tenants", Path: "/tenants", AllowedRoles: []models.Role{models.RoleSystemAdmin}},
			{Name: "organizations", Path: "/organizations", AllowedRoles: []models.Role{models.RoleTenantAdmin}},
			{Name: "users", Path: "/users", AllowedRoles: []models.Role{models.RoleTenantAdmin}},
			{Name: "roles", Path: "/roles", AllowedRoles: []models.Role{models.RoleTenantAdmin}},
			{Name: "privileges", Path: "/privileges", AllowedRoles: []models.Role{models.RoleSystemAdmin}},
			{Name: "legal-entities", Path: "/legal-entities", AllowedRoles: []models.Role{models.RoleTenantAdmin}},
			{Name: "settings", Path: "/settings", AllowedRoles: []models.Role{models.RoleSystemAdmin}},
			{Name: "profile", Path: "/profile"},
			{Name: "organization", Path: "/organization", AllowedRoles: []models.Role{models.RoleUser}},
		},
	}
}
