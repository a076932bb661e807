package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/adminconsole/internal/auth"
	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/models"
)

// Credentials are presented at login. TenantID is optional; when set the
// account must belong to that tenant.
type Credentials struct {
	Email    string
	Password string
	TenantID string
}

// ProfilePatch holds the profile fields to change. Nil fields are left alone.
type ProfilePatch = identity.ProfilePatch

// Store is the single owner of the session. Mutations are serialized; readers
// get copies of the last published snapshot and never see a half-applied change.
type Store struct {
	cfg Config

	// opMu serializes Login, Logout, Expire, UpdateProfile and InitializeFromStorage.
	opMu sync.Mutex

	mu      sync.RWMutex
	current models.Session

	subMu       sync.RWMutex
	subscribers map[uint64]func(Event)
	nextSubID   uint64
}

// NewStore creates a session store with an empty session.
func NewStore(cfg Config) (*Store, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	return &Store{
		cfg:         cfg,
		subscribers: make(map[uint64]func(Event)),
	}, nil
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Config returns the effective configuration.
func (s *Store) Config() Config {
	return s.cfg
}

func (s *Store) publish(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess.Clone()
}

// setLoading publishes the current session with the loading flag set and
// returns the session as it was before.
func (s *Store) setLoading() models.Session {
	prior := s.Snapshot()
	loading := prior.Clone()
	loading.Loading = true
	s.publish(loading)
	s.emit(ReasonLoading, loading)
	return prior
}

// restore republishes prior after a failed operation.
func (s *Store) restore(prior models.Session) {
	s.publish(prior)
	s.emit(ReasonFailed, prior)
}

// Login authenticates against the identity store and starts a session.
// On failure the session is left exactly as it was.
func (s *Store) Login(ctx context.Context, creds Credentials) (models.Session, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	prior := s.setLoading()

	next, err := s.authenticate(ctx, creds)
	if err != nil {
		s.restore(prior)
		s.cfg.Metrics.LoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", loginOutcome(err))))
		return models.Session{}, err
	}

	s.publish(next)
	s.persist(ctx, next)
	s.emit(ReasonLogin, next)

	s.cfg.Metrics.LoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))

	log.Info().
		Str("principal_id", next.Principal.ID).
		Str("tenant_id", next.Principal.TenantID).
		Str("role", string(next.Role)).
		Str("token", auth.Fingerprint(next.Token)).
		Time("expires_at", next.TokenExpiresAt).
		Msg("login succeeded")

	return next.Clone(), nil
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrTenantMismatch):
		return "tenant_mismatch"
	case errors.Is(err, identity.ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// authenticate builds the new session without touching the published one.
func (s *Store) authenticate(ctx context.Context, creds Credentials) (models.Session, error) {
	acct, err := s.callIdentity(ctx, identity.Credentials{Email: creds.Email, Password: creds.Password})
	if err != nil {
		if errors.Is(err, identity.ErrAuthenticationFailed) {
			log.Warn().Msg("login failed: invalid credentials")
			return models.Session{}, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("login failed: identity store error")
		return models.Session{}, fmt.Errorf("login failed: %w", err)
	}

	if acct == nil || acct.PrincipalID == "" {
		log.Warn().Msg("login failed: identity store returned no principal")
		return models.Session{}, ErrInvalidCredentials
	}

	if creds.TenantID != "" && creds.TenantID != acct.TenantID {
		log.Warn().
			Str("principal_id", acct.PrincipalID).
			Str("requested_tenant", creds.TenantID).
			Msg("login failed: tenant mismatch")
		return models.Session{}, ErrTenantMismatch
	}

	role, err := s.cfg.Resolver.ResolveRole(ctx, acct)
	if err != nil || !role.Valid() {
		log.Warn().Err(err).Str("principal_id", acct.PrincipalID).Msg("login failed: role could not be resolved")
		return models.Session{}, ErrInvalidCredentials
	}

	now := s.cfg.Now()
	token, expiresAt, err := s.cfg.Issuer.Issue(acct.PrincipalID, now, s.cfg.TokenTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return models.Session{
		Principal:      acct.Principal(),
		Token:          token,
		TokenExpiresAt: expiresAt,
		Role:           role,
		Permissions:    s.cfg.Catalog.PermissionsFor(role),
		Authenticated:  now.Before(expiresAt),
	}, nil
}

// callIdentity authenticates, retrying with exponential backoff while the
// identity store reports itself unavailable.
func (s *Store) callIdentity(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.IdentityRetryInterval

	attempt := 0
	return backoff.Retry(ctx, func() (*identity.Account, error) {
		attempt++
		start := time.Now()
		acct, err := s.cfg.Identity.Authenticate(ctx, creds)
		s.cfg.Metrics.AuthenticateDuration.Record(ctx, float64(time.Since(start).Milliseconds()))

		if errors.Is(err, identity.ErrUnavailable) {
			log.Warn().Err(err).Int("attempt", attempt).Msg("identity store unavailable, retrying")
			return nil, err
		}
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return acct, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.cfg.IdentityRetries))
}

// Logout clears the session and the durable snapshot. It always succeeds and
// calling it again has no further effect.
func (s *Store) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clear(ctx, ReasonLogout)
}

// Expire logs out silently if the session is authenticated and its token
// expiry has passed. Returns true if the session was expired.
func (s *Store) Expire(ctx context.Context) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cur := s.Snapshot()
	if !cur.Authenticated || !cur.IsExpired(s.cfg.Now()) {
		return false
	}

	log.Debug().
		Str("token", auth.Fingerprint(cur.Token)).
		Time("expires_at", cur.TokenExpiresAt).
		Msg("session token expired")

	s.clear(ctx, ReasonExpired)
	return true
}

// clear must be called with opMu held.
func (s *Store) clear(ctx context.Context, reason Reason) {
	prior := s.Snapshot()

	s.publish(models.Session{})

	if err := s.cfg.Storage.Delete(ctx, durableKeys...); err != nil {
		log.Error().Err(err).Msg("failed to clear durable session")
	}

	// nothing changed in memory, nothing to announce
	if !prior.HasCredentials() && !prior.Authenticated && !prior.Loading {
		return
	}

	s.cfg.Metrics.LogoutsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
	s.emit(reason, models.Session{})

	if reason != ReasonExpired {
		log.Info().Str("reason", string(reason)).Msg("session cleared")
	}
}

// UpdateProfile merges the patch into the current principal. The principal ID
// never changes. Fails with ErrProfileUpdateFailed when no session is active.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.Principal, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	cur := s.Snapshot()
	if !cur.Authorized() || !cur.Principal.Valid() {
		return nil, fmt.Errorf("%w: no active session", ErrProfileUpdateFailed)
	}

	if patch.Empty() {
		return cur.Principal.Clone(), nil
	}

	var updated *models.Principal

	if updater, ok := s.cfg.Identity.(identity.ProfileUpdater); ok {
		prior := s.setLoading()

		acct, err := updater.UpdateProfile(ctx, cur.Principal.ID, patch)
		if err != nil {
			s.restore(prior)
			log.Warn().Err(err).Str("principal_id", cur.Principal.ID).Msg("profile update rejected")
			return nil, fmt.Errorf("%w: %w", ErrProfileUpdateFailed, err)
		}

		updated = acct.Principal()
		updated.ID = cur.Principal.ID
	} else {
		updated = patch.Apply(cur.Principal)
	}

	next := cur.Clone()
	next.Principal = updated
	next.Loading = false

	s.publish(next)
	s.persist(ctx, next)
	s.emit(ReasonProfile, next)

	log.Info().Str("principal_id", updated.ID).Msg("profile updated")

	return updated.Clone(), nil
}

// StartWatchdog starts a watchdog over this store using the configured interval.
func (s *Store) StartWatchdog(ctx context.Context) (stop func()) {
	return NewWatchdog(s, s.cfg.WatchInterval).Start(ctx)
}
