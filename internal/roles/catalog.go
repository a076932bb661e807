package roles

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/adminconsole/internal/guard"
	"github.com/wolfeidau/adminconsole/internal/models"
)

var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidCatalog = errors.New("invalid role catalog")
)

// NavItem is one entry in a role's navigation menu.
type NavItem struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
	Icon  string `yaml:"icon,omitempty"`
}

// Catalog holds the static role tables: default permissions, navigation menus
// and the declared routes.
type Catalog struct {
	Permissions map[models.Role]models.PermissionSet
	Navigation  map[models.Role][]NavItem
	Routes      []guard.Route
}

// PermissionsFor returns the default permission set for a role.
// system_admin always gets the all-capabilities sentinel; unknown roles get nothing.
func (c *Catalog) PermissionsFor(role models.Role) models.PermissionSet {
	if role == models.RoleSystemAdmin {
		return models.AllPermissionSet()
	}
	return c.Permissions[role]
}

// Route looks up a declared route by name.
func (c *Catalog) Route(name string) (guard.Route, bool) {
	for _, r := range c.Routes {
		if r.Name == name {
			r.AllowedRoles = slices.Clone(r.AllowedRoles)
			return r, true
		}
	}
	return guard.Route{}, false
}

// Validate checks the catalog for unknown roles and misplaced sentinels.
func (c *Catalog) Validate() error {
	for role, perms := range c.Permissions {
		if !role.Valid() {
			return fmt.Errorf("%w: permissions for %w %q", ErrInvalidCatalog, ErrUnknownRole, role)
		}
		if perms.IsAll() && role != models.RoleSystemAdmin {
			return fmt.Errorf("%w: %q may only be granted to %s", ErrInvalidCatalog, models.AllPermissions, models.RoleSystemAdmin)
		}
	}

	for role, items := range c.Navigation {
		if !role.Valid() {
			return fmt.Errorf("%w: navigation for %w %q", ErrInvalidCatalog, ErrUnknownRole, role)
		}
		for _, item := range items {
			if item.Label == "" || item.Path == "" {
				return fmt.Errorf("%w: navigation item for %s requires label and path", ErrInvalidCatalog, role)
			}
		}
	}

	seen := make(map[string]bool, len(c.Routes))
	for _, r := range c.Routes {
		if r.Name == "" || r.Path == "" {
			return fmt.Errorf("%w: route requires name and path", ErrInvalidCatalog)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate route %q", ErrInvalidCatalog, r.Name)
		}
		seen[r.Name] = true

		switch r.Access {
		case "", guard.AccessProtected, guard.AccessPublicOnly:
		default:
			return fmt.Errorf("%w: route %q has unknown access %q", ErrInvalidCatalog, r.Name, r.Access)
		}
		for _, role := range r.AllowedRoles {
			if !role.Valid() {
				return fmt.Errorf("%w: route %q allows %w %q", ErrInvalidCatalog, r.Name, ErrUnknownRole, role)
			}
		}
	}

	return nil
}

// catalogFile is the YAML layout accepted by Load.
type catalogFile struct {
	Permissions map[models.Role]models.PermissionSet `yaml:"permissions"`
	Navigation  map[models.Role][]NavItem            `yaml:"navigation"`
	Routes      []guard.Route                        `yaml:"routes"`
}

// Load reads a YAML catalog from path and overlays it on the defaults.
// Roles present in the file replace their default permissions and navigation;
// routes replace defaults with the same name and are appended otherwise.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse overlays a YAML catalog document on the defaults.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	c := Default()
	for role, perms := range file.Permissions {
		c.Permissions[role] = perms
	}
	for role, items := range file.Navigation {
		c.Navigation[role] = slices.Clone(items)
	}
	for _, r := range file.Routes {
		if i := slices.IndexFunc(c.Routes, func(existing guard.Route) bool { return existing.Name == r.Name }); i >= 0 {
			c.Routes[i] = r
			continue
		}
		c.Routes = append(c.Routes, r)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// system_admin bypasses every check, whatever the file says
	c.Permissions[models.RoleSystemAdmin] = models.AllPermissionSet()

	return c, nil
}
