package session

import (
	"errors"
	"time"

	"github.com/wolfeidau/adminconsole/internal/auth"
	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/roles"
	"github.com/wolfeidau/adminconsole/internal/storage"
	"github.com/wolfeidau/adminconsole/internal/telemetry"
)

// Config holds the session store's collaborators and timing.
type Config struct {
	// Identity authenticates credentials. Required.
	Identity identity.Store

	// Storage holds the durable snapshot. Required.
	Storage storage.Storage

	// Issuer issues and inspects session tokens. Required.
	Issuer auth.TokenIssuer

	// Resolver derives the role for an account.
	// Default: auth.DefaultRoleTable()
	Resolver auth.RoleResolver

	// Catalog supplies default permissions per role.
	// Default: roles.Default()
	Catalog *roles.Catalog

	// Metrics records session metrics.
	// Default: telemetry.GetMetrics()
	Metrics *telemetry.Metrics

	// Now is the clock used for token issue and expiry checks.
	// Default: time.Now
	Now func() time.Time

	// TokenTTL is how long an issued token stays valid.
	// Default: 1 hour
	TokenTTL time.Duration

	// WatchInterval is the watchdog check interval.
	// Default: 30 seconds
	WatchInterval time.Duration

	// IdentityRetries is the maximum number of identity store attempts when it
	// reports itself unavailable.
	// Default: 3
	IdentityRetries uint

	// IdentityRetryInterval is the initial backoff between attempts.
	// Default: 200 milliseconds
	IdentityRetryInterval time.Duration
}

// Validate checks that required collaborators are present.
func (c *Config) Validate() error {
	if c.Identity == nil {
		return errors.New("identity store is required")
	}
	if c.Storage == nil {
		return errors.New("storage is required")
	}
	if c.Issuer == nil {
		return errors.New("token issuer is required")
	}
	if c.TokenTTL < time.Second {
		return errors.New("token TTL must be at least one second")
	}
	if c.WatchInterval < 0 {
		return errors.New("watch interval must be positive")
	}
	return nil
}

// ApplyDefaults applies default values to unset configuration fields.
func (c *Config) ApplyDefaults() {
	if c.Resolver == nil {
		c.Resolver = auth.DefaultRoleTable()
	}
	if c.Catalog == nil {
		c.Catalog = roles.Default()
	}
	if c.Metrics == nil {
		c.Metrics = telemetry.GetMetrics()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
	if c.WatchInterval == 0 {
		c.WatchInterval = 30 * time.Second
	}
	if c.IdentityRetries == 0 {
		c.IdentityRetries = 3
	}
	if c.IdentityRetryInterval == 0 {
		c.IdentityRetryInterval = 200 * time.Millisecond
	}
}
