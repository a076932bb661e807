package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/adminconsole/internal/auth"
	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/models"
)

// Durable storage keys.
const (
	KeyToken       = "token"
	KeyUser        = "user"
	KeyUserRole    = "userRole"
	KeyPermissions = "permissions"
)

var durableKeys = []string{KeyToken, KeyUser, KeyUserRole, KeyPermissions}

// Reconciliation is the outcome of InitializeFromStorage.
type Reconciliation string

const (
	ReconcileNone          Reconciliation = "none"          // nothing to do
	ReconcileRestored      Reconciliation = "restored"      // session rebuilt from the stored snapshot
	ReconcileReconstructed Reconciliation = "reconstructed" // principal recovered from the token
	ReconcileReset         Reconciliation = "reset"         // snapshot discarded and session cleared
)

// persist mirrors the session into durable storage. Write failures are
// logged; the in-memory session stays authoritative.
func (s *Store) persist(ctx context.Context, sess models.Session) {
	user, err := json.Marshal(sess.Principal)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode principal")
		return
	}

	perms, err := sess.Permissions.Encode()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode permissions")
		return
	}

	entries := map[string]string{
		KeyToken:       sess.Token,
		KeyUser:        string(user),
		KeyUserRole:    string(sess.Role),
		KeyPermissions: perms,
	}

	if err := s.cfg.Storage.Set(ctx, entries); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
	}
}

type durableSnapshot struct {
	token          string
	hasToken       bool
	user           string
	hasUser        bool
	role           string
	hasRole        bool
	permissions    string
	hasPermissions bool
}

func (s *Store) readDurable(ctx context.Context) (durableSnapshot, error) {
	var (
		d   durableSnapshot
		err error
	)

	if d.token, d.hasToken, err = s.cfg.Storage.Get(ctx, KeyToken); err != nil {
		return d, err
	}
	if d.user, d.hasUser, err = s.cfg.Storage.Get(ctx, KeyUser); err != nil {
		return d, err
	}
	if d.role, d.hasRole, err = s.cfg.Storage.Get(ctx, KeyUserRole); err != nil {
		return d, err
	}
	if d.permissions, d.hasPermissions, err = s.cfg.Storage.Get(ctx, KeyPermissions); err != nil {
		return d, err
	}

	d.hasToken = d.hasToken && d.token != ""
	d.hasUser = d.hasUser && d.user != "" && d.user != "null"

	return d, nil
}

// InitializeFromStorage reconciles the in-memory session with the durable
// snapshot. It never fails: anything it cannot trust is discarded with a
// clean logout.
func (s *Store) InitializeFromStorage(ctx context.Context) Reconciliation {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	outcome := s.reconcile(ctx)

	s.cfg.Metrics.RestoresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
	log.Debug().Str("outcome", string(outcome)).Msg("session reconciled with storage")

	return outcome
}

func (s *Store) reconcile(ctx context.Context) Reconciliation {
	d, err := s.readDurable(ctx)
	if err != nil {
		return s.failClosed(ctx, fmt.Errorf("failed to read storage: %w", err))
	}

	cur := s.Snapshot()

	switch {
	case d.hasToken && !d.hasUser:
		return s.reconstruct(ctx, d)
	case d.hasToken && d.hasUser && !cur.Authenticated:
		return s.restoreSnapshot(ctx, d)
	case !d.hasToken && !d.hasUser && cur.Authenticated:
		log.Warn().Err(ErrSessionInconsistent).Msg("authenticated session has no stored snapshot")
		s.clear(ctx, ReasonLogout)
		return ReconcileReset
	default:
		return ReconcileNone
	}
}

// failClosed discards the session and the durable snapshot.
func (s *Store) failClosed(ctx context.Context, cause error) Reconciliation {
	log.Warn().Err(fmt.Errorf("%w: %w", ErrSessionInconsistent, cause)).Msg("discarding stored session")
	s.clear(ctx, ReasonLogout)
	return ReconcileReset
}

// reconstruct recovers the principal from the token subject.
func (s *Store) reconstruct(ctx context.Context, d durableSnapshot) Reconciliation {
	claims, err := s.cfg.Issuer.Inspect(d.token)
	if err != nil {
		return s.failClosed(ctx, err)
	}

	if !s.cfg.Now().Before(claims.ExpiresAt) {
		return s.failClosed(ctx, errors.New("token expired"))
	}

	lookup, ok := s.cfg.Identity.(identity.PrincipalLookup)
	if !ok {
		return s.failClosed(ctx, errors.New("identity store cannot look up principals"))
	}

	acct, err := lookup.Lookup(ctx, claims.Subject)
	if err != nil {
		return s.failClosed(ctx, fmt.Errorf("principal lookup: %w", err))
	}

	role, err := s.cfg.Resolver.ResolveRole(ctx, acct)
	if err == nil && !role.Valid() {
		err = auth.ErrRoleUnresolved
	}
	if err != nil {
		return s.failClosed(ctx, fmt.Errorf("role: %w", err))
	}

	sess := models.Session{
		Principal:      acct.Principal(),
		Token:          d.token,
		TokenExpiresAt: claims.ExpiresAt,
		Role:           role,
		Permissions:    s.cfg.Catalog.PermissionsFor(role),
		Authenticated:  true,
	}

	s.publish(sess)
	s.persist(ctx, sess)
	s.emit(ReasonRestored, sess)

	log.Info().
		Str("principal_id", sess.Principal.ID).
		Str("token", auth.Fingerprint(sess.Token)).
		Msg("session reconstructed from token")

	return ReconcileReconstructed
}

// restoreSnapshot rebuilds the session from a complete stored snapshot.
func (s *Store) restoreSnapshot(ctx context.Context, d durableSnapshot) Reconciliation {
	var principal models.Principal
	if err := json.Unmarshal([]byte(d.user), &principal); err != nil {
		return s.failClosed(ctx, fmt.Errorf("corrupt principal: %w", err))
	}
	if !principal.Valid() {
		return s.failClosed(ctx, errors.New("stored principal has no id"))
	}

	claims, err := s.cfg.Issuer.Inspect(d.token)
	if err != nil {
		return s.failClosed(ctx, err)
	}

	if claims.Subject != principal.ID {
		return s.failClosed(ctx, errors.New("token subject does not match stored principal"))
	}

	if !s.cfg.Now().Before(claims.ExpiresAt) {
		log.Debug().Str("token", auth.Fingerprint(d.token)).Msg("stored session token expired")
		s.clear(ctx, ReasonExpired)
		return ReconcileReset
	}

	role := models.ParseRole(d.role)
	rederived := false
	if !d.hasRole || role == models.RoleNone {
		role, err = s.deriveRole(ctx, &principal)
		if err != nil {
			return s.failClosed(ctx, fmt.Errorf("role: %w", err))
		}
		rederived = true
	}

	perms := s.cfg.Catalog.PermissionsFor(role)
	if d.hasPermissions && !rederived {
		perms, err = models.DecodePermissionSet(d.permissions)
		if err != nil {
			return s.failClosed(ctx, fmt.Errorf("corrupt permissions: %w", err))
		}
		if perms.IsAll() != (role == models.RoleSystemAdmin) {
			return s.failClosed(ctx, errors.New("permission sentinel does not match role"))
		}
	}

	sess := models.Session{
		Principal:      &principal,
		Token:          d.token,
		TokenExpiresAt: claims.ExpiresAt,
		Role:           role,
		Permissions:    perms,
		Authenticated:  true,
	}

	s.publish(sess)
	if rederived || !d.hasPermissions {
		s.persist(ctx, sess)
	}
	s.emit(ReasonRestored, sess)

	log.Info().
		Str("principal_id", principal.ID).
		Str("role", string(role)).
		Str("token", auth.Fingerprint(d.token)).
		Msg("session restored from storage")

	return ReconcileRestored
}

// deriveRole resolves the role for a stored principal, refreshing the
// account from the identity store when it supports lookups.
func (s *Store) deriveRole(ctx context.Context, p *models.Principal) (models.Role, error) {
	acct := &identity.Account{
		PrincipalID:    p.ID,
		DisplayName:    p.DisplayName,
		Email:          p.Email,
		TenantID:       p.TenantID,
		OrganizationID: p.OrganizationID,
	}

	if lookup, ok := s.cfg.Identity.(identity.PrincipalLookup); ok {
		found, err := lookup.Lookup(ctx, p.ID)
		if err != nil {
			return models.RoleNone, fmt.Errorf("principal lookup: %w", err)
		}
		acct = found
	}

	role, err := s.cfg.Resolver.ResolveRole(ctx, acct)
	if err != nil {
		return models.RoleNone, err
	}
	if !role.Valid() {
		return models.RoleNone, auth.ErrRoleUnresolved
	}
	return role, nil
}
