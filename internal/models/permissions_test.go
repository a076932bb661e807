package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPermissionSet(t *testing.T) {
	t.Run("sorts and removes duplicates", func(t *testing.T) {
		set := NewPermissionSet("user.read", "org.read", "user.read", " ")
		require.Equal(t, []string{"org.read", "user.read"}, set.List())
		require.False(t, set.IsAll())
	})

	t.Run("wildcard entry becomes the sentinel", func(t *testing.T) {
		set := NewPermissionSet("user.read", "*")
		require.True(t, set.IsAll())
		require.Equal(t, []string{"*"}, set.List())
	})

	t.Run("empty set lists nothing", func(t *testing.T) {
		require.Empty(t, NewPermissionSet().List())
		require.True(t, NewPermissionSet().Equal(PermissionSet{}))
	})
}

func TestPermissionSetContains(t *testing.T) {
	set := NewPermissionSet("user.read", "user.update")

	require.True(t, set.Contains("user.read"))
	require.False(t, set.Contains("user.delete"))
	require.False(t, set.Contains(""))

	all := AllPermissionSet()
	require.True(t, all.Contains("anything.at.all"))
	require.False(t, all.Contains(""))
}

func TestPermissionSetEncoding(t *testing.T) {
	tests := []struct {
		name    string
		set     PermissionSet
		encoded string
	}{
		{name: "sentinel", set: AllPermissionSet(), encoded: "*"},
		{name: "explicit", set: NewPermissionSet("b", "a"), encoded: `["a","b"]`},
		{name: "empty", set: NewPermissionSet(), encoded: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.set.Encode()
			require.NoError(t, err)
			require.Equal(t, tt.encoded, encoded)

			decoded, err := DecodePermissionSet(encoded)
			require.NoError(t, err)
			require.True(t, tt.set.Equal(decoded))
		})
	}

	t.Run("garbage fails to decode", func(t *testing.T) {
		_, err := DecodePermissionSet("{not json")
		require.Error(t, err)
	})
}

func TestPermissionSetJSON(t *testing.T) {
	var set PermissionSet
	require.NoError(t, json.Unmarshal([]byte(`"*"`), &set))
	require.True(t, set.IsAll())

	require.NoError(t, json.Unmarshal([]byte(`["user.read"]`), &set))
	require.Equal(t, []string{"user.read"}, set.List())

	data, err := json.Marshal(NewPermissionSet("user.read"))
	require.NoError(t, err)
	require.JSONEq(t, `["user.read"]`, string(data))
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleSystemAdmin, ParseRole("system_admin"))
	require.Equal(t, RoleTenantAdmin, ParseRole("tenant_admin"))
	require.Equal(t, RoleUser, ParseRole("user"))
	require.Equal(t, RoleNone, ParseRole("root"))
	require.Equal(t, RoleNone, ParseRole(""))
}
