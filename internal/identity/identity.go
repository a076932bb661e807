package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfeidau/adminconsole/internal/models"
)

// Errors
var (
	ErrAuthenticationFailed      = errors.New("authentication failed")
	ErrUnavailable               = errors.New("identity store unavailable")
	ErrAccountNotFound           = errors.New("account not found")
	ErrAccountAlreadyExists      = errors.New("account already exists")
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationMismatch      = errors.New("organization belongs to another tenant")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// Credentials are what the user presents at login.
type Credentials struct {
	Email    string
	Password string
}

// Account is the identity store's view of a principal, including the role
// claim it issued.
type Account struct {
	PrincipalID    string
	DisplayName    string
	Email          string
	TenantID       string
	OrganizationID string
	Role           models.Role
}

// Principal converts the account into a session principal.
func (a *Account) Principal() *models.Principal {
	return &models.Principal{
		ID:             a.PrincipalID,
		DisplayName:    a.DisplayName,
		Email:          a.Email,
		TenantID:       a.TenantID,
		OrganizationID: a.OrganizationID,
	}
}

// Store authenticates credentials.
type Store interface {
	// Authenticate returns the account matching the credentials, or
	// ErrAuthenticationFailed. ErrUnavailable signals a transient failure.
	Authenticate(ctx context.Context, creds Credentials) (*Account, error)
}

// PrincipalLookup is implemented by stores that can find an account by
// principal ID without credentials.
type PrincipalLookup interface {
	Lookup(ctx context.Context, principalID string) (*Account, error)
}

// ProfileUpdater is implemented by stores that own profile data.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, principalID string, patch ProfilePatch) (*Account, error)
}

// ProfilePatch holds the profile fields to change. Nil fields are left alone.
type ProfilePatch struct {
	DisplayName    *string
	Email          *string
	OrganizationID *string
}

// Empty returns true if the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.Email == nil && p.OrganizationID == nil
}

// Apply merges the patch into a copy of the principal. The ID and tenant never change.
func (p ProfilePatch) Apply(principal *models.Principal) *models.Principal {
	out := principal.Clone()
	if out == nil {
		return nil
	}
	if p.DisplayName != nil {
		out.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Email != nil {
		out.Email = NormalizeEmail(*p.Email)
	}
	if p.OrganizationID != nil {
		out.OrganizationID = *p.OrganizationID
	}
	return out
}

// NormalizeEmail lowercases and trims an email address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
