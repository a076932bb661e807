package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/models"
)

var ErrRoleUnresolved = errors.New("role could not be resolved")

// RoleResolver derives the active role for an authenticated account.
type RoleResolver interface {
	ResolveRole(ctx context.Context, acct *identity.Account) (models.Role, error)
}

// StaticRoleTable maps email addresses to roles. Any other valid identity is a user.
type StaticRoleTable map[string]models.Role

// DefaultRoleTable returns the techcorp email table.
func DefaultRoleTable() StaticRoleTable {
	return StaticRoleTable{
		"admin@techcorp.com":         models.RoleSystemAdmin,
		"sarah.manager@techcorp.com": models.RoleTenantAdmin,
	}
}

// ResolveRole looks the account's email up in the table.
func (t StaticRoleTable) ResolveRole(ctx context.Context, acct *identity.Account) (models.Role, error) {
	if acct == nil || acct.PrincipalID == "" {
		return models.RoleNone, ErrRoleUnresolved
	}
	if role, ok := t[identity.NormalizeEmail(acct.Email)]; ok {
		return role, nil
	}
	return models.RoleUser, nil
}

// ClaimRoleResolver uses the role claim issued by the identity store.
type ClaimRoleResolver struct{}

// ResolveRole returns the account's role claim, failing when it is missing or unknown.
func (ClaimRoleResolver) ResolveRole(ctx context.Context, acct *identity.Account) (models.Role, error) {
	if acct == nil || acct.PrincipalID == "" {
		return models.RoleNone, ErrRoleUnresolved
	}
	if !acct.Role.Valid() {
		return models.RoleNone, fmt.Errorf("%w: role claim %q", ErrRoleUnresolved, acct.Role)
	}
	return acct.Role, nil
}
