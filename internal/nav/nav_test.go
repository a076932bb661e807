package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/adminconsole/internal/models"
	"github.com/wolfeidau/adminconsole/internal/roles"
)

func labels(items []roles.NavItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}
	return out
}

func TestSelect(t *testing.T) {
	c := roles.Default()

	tests := []struct {
		name     string
		role     models.Role
		expected []string
	}{
		{
			name:     "system admin",
			role:     models.RoleSystemAdmin,
			expected: []string{"Dashboard", "Tenants", "Organizations", "Users", "Roles", "Privileges", "Legal Entities", "Settings"},
		},
		{
			name:     "tenant admin",
			role:     models.RoleTenantAdmin,
			expected: []string{"Dashboard", "Organizations", "Users", "Roles", "Legal Entities", "Profile"},
		},
		{
			name:     "user",
			role:     models.RoleUser,
			expected: []string{"Dashboard", "My Organization", "Profile"},
		},
		{
			name:     "no role falls back to user menu",
			role:     models.RoleNone,
			expected: []string{"Dashboard", "My Organization", "Profile"},
		},
		{
			name:     "unknown role falls back to user menu",
			role:     models.Role("auditor"),
			expected: []string{"Dashboard", "My Organization", "Profile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, labels(Select(c, tt.role)))
		})
	}
}

func TestSelectReturnsCopy(t *testing.T) {
	c := roles.Default()

	items := Select(c, models.RoleUser)
	items[0].Label = "changed"

	require.Equal(t, "Dashboard", Select(c, models.RoleUser)[0].Label)
}

func TestSelectFor(t *testing.T) {
	c := roles.Default()

	require.Nil(t, SelectFor(c, models.Session{}))

	s := models.Session{
		Principal:      &models.Principal{ID: "p-1"},
		Token:          "token",
		TokenExpiresAt: time.Now().Add(time.Hour),
		Role:           models.RoleTenantAdmin,
		Authenticated:  true,
	}
	require.Len(t, SelectFor(c, s), 6)
}
