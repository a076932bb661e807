package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitymem "github.com/wolfeidau/adminconsole/internal/identity/memory"
	"github.com/wolfeidau/adminconsole/internal/session"
)

func newGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &Globals{
		SessionTTL:    time.Hour,
		WatchInterval: 10 * time.Millisecond,
		SigningKey:    "cli-test-signing-key-0123456789ab",
		StateDir:      t.TempDir(),
		Out:           out,
	}, out
}

func login(t *testing.T, g *Globals, email string) {
	t.Helper()
	cmd := &LoginCmd{Email: email, Password: identitymem.DemoPassword}
	require.NoError(t, cmd.Run(context.Background(), g))
}

func TestLoginWhoamiLogout(t *testing.T) {
	ctx := context.Background()
	g, out := newGlobals(t)

	login(t, g, "sarah.manager@techcorp.com")
	assert.Contains(t, out.String(), "Logged in as Sarah Manager (Tenant Administrator)")

	_, err := os.Stat(filepath.Join(g.StateDir, "session.json"))
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(ctx, g))
	assert.Contains(t, out.String(), "sarah.manager@techcorp.com")
	assert.Contains(t, out.String(), "Tenant Administrator")
	assert.Contains(t, out.String(), "role.assign")

	out.Reset()
	require.NoError(t, (&LogoutCmd{}).Run(ctx, g))
	assert.Contains(t, out.String(), "Logged out")

	_, err = os.Stat(filepath.Join(g.StateDir, "session.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.ErrorIs(t, (&WhoamiCmd{}).Run(ctx, g), ErrNotLoggedIn)
}

func TestLoginCmd_Failures(t *testing.T) {
	ctx := context.Background()
	g, _ := newGlobals(t)

	err := (&LoginCmd{Email: "admin@techcorp.com", Password: "wrong"}).Run(ctx, g)
	require.ErrorIs(t, err, session.ErrInvalidCredentials)

	err = (&LoginCmd{Email: "admin@techcorp.com", Password: identitymem.DemoPassword, Tenant: "globex"}).Run(ctx, g)
	require.ErrorIs(t, err, session.ErrTenantMismatch)

	g.SigningKey = "short"
	err = (&LoginCmd{Email: "admin@techcorp.com", Password: identitymem.DemoPassword}).Run(ctx, g)
	require.ErrorContains(t, err, "invalid signing key")
}

func TestCanCmd(t *testing.T) {
	ctx := context.Background()
	g, out := newGlobals(t)
	login(t, g, "john.developer@techcorp.com")

	out.Reset()
	require.NoError(t, (&CanCmd{Capability: []string{"profile.read"}}).Run(ctx, g))
	assert.Equal(t, "profile.read: yes\n", out.String())

	out.Reset()
	err := (&CanCmd{Capability: []string{"profile.read", "user.delete"}}).Run(ctx, g)
	require.Error(t, err)
	assert.Contains(t, out.String(), "user.delete: no")
}

func TestOpenCmd(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		route    string
		expected string
	}{
		{name: "unauthenticated", route: "users", expected: "Redirect to /login"},
		{name: "login page while unauthenticated", route: "login", expected: "Rendering /login"},
		{name: "system admin on tenant admin route", email: "admin@techcorp.com", route: "users", expected: "Rendering /users"},
		{name: "tenant admin on own route", email: "sarah.manager@techcorp.com", route: "users", expected: "Rendering /users"},
		{name: "user denied", email: "john.developer@techcorp.com", route: "users", expected: "Access denied to /users"},
		{name: "login page while authenticated", email: "john.developer@techcorp.com", route: "login", expected: "Redirect to /dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, out := newGlobals(t)
			if tt.email != "" {
				login(t, g, tt.email)
			}

			out.Reset()
			require.NoError(t, (&OpenCmd{Route: tt.route}).Run(ctx, g))
			assert.Contains(t, out.String(), tt.expected)
		})
	}

	t.Run("unknown route", func(t *testing.T) {
		g, _ := newGlobals(t)
		require.ErrorContains(t, (&OpenCmd{Route: "nowhere"}).Run(ctx, g), "unknown route")
	})
}

func TestNavCmd(t *testing.T) {
	ctx := context.Background()
	g, out := newGlobals(t)

	require.ErrorIs(t, (&NavCmd{}).Run(ctx, g), ErrNotLoggedIn)

	login(t, g, "john.developer@techcorp.com")
	out.Reset()
	require.NoError(t, (&NavCmd{}).Run(ctx, g))
	assert.Contains(t, out.String(), "My Organization")
	assert.NotContains(t, out.String(), "Tenants")
}

func TestProfileCmd(t *testing.T) {
	ctx := context.Background()
	g, out := newGlobals(t)

	require.Error(t, (&ProfileCmd{}).Run(ctx, g))
	require.ErrorIs(t, (&ProfileCmd{Name: "x"}).Run(ctx, g), session.ErrProfileUpdateFailed)

	login(t, g, "john.developer@techcorp.com")
	out.Reset()
	require.NoError(t, (&ProfileCmd{Name: "Johnny"}).Run(ctx, g))
	assert.Contains(t, out.String(), "Profile updated: Johnny <john.developer@techcorp.com>")

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(ctx, g))
	assert.Contains(t, out.String(), "Johnny", "profile survives a restart")
}

func TestCatalogOverride(t *testing.T) {
	ctx := context.Background()
	g, out := newGlobals(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "routes:\n  - name: users\n    path: /users\n    allowedRoles: [user]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	g.CatalogPath = path

	login(t, g, "john.developer@techcorp.com")
	out.Reset()
	require.NoError(t, (&OpenCmd{Route: "users"}).Run(ctx, g))
	assert.Contains(t, out.String(), "Rendering /users")
}

func TestWatchCmd(t *testing.T) {
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		g, _ := newGlobals(t)
		require.ErrorIs(t, (&WatchCmd{For: time.Second}).Run(ctx, g), ErrNotLoggedIn)
	})

	t.Run("stops after duration", func(t *testing.T) {
		g, out := newGlobals(t)
		login(t, g, "john.developer@techcorp.com")

		out.Reset()
		require.NoError(t, (&WatchCmd{For: 30 * time.Millisecond}).Run(ctx, g))
		assert.Contains(t, out.String(), "Stopped watching")
	})

	t.Run("expires session", func(t *testing.T) {
		g, out := newGlobals(t)
		g.SessionTTL = 1500 * time.Millisecond
		login(t, g, "john.developer@techcorp.com")

		out.Reset()
		require.NoError(t, (&WatchCmd{For: 5 * time.Second}).Run(ctx, g))
		assert.Contains(t, out.String(), "Session expired")
		require.ErrorIs(t, (&WhoamiCmd{}).Run(ctx, g), ErrNotLoggedIn)
	})
}
