package auth

import (
	"github.com/wolfeidau/adminconsole/internal/models"
)

var roleDisplayNames = map[models.Role]string{
	models.RoleSystemAdmin: "System Administrator",
	models.RoleTenantAdmin: "Tenant Administrator",
	models.RoleUser:        "User",
}

// HasPermission checks if the session grants a capability.
// system_admin holds every capability; sessions that are not authorized hold none.
func HasPermission(s models.Session, capability string) bool {
	if !s.Authorized() {
		return false
	}
	if s.Role == models.RoleSystemAdmin {
		return true
	}
	return s.Permissions.Contains(capability)
}

// IsRole checks if the session's active role is exactly candidate.
func IsRole(s models.Session, candidate models.Role) bool {
	if !s.Authorized() {
		return false
	}
	return s.Role == candidate
}

// RoleDisplayName returns the human label for the session's role.
func RoleDisplayName(s models.Session) string {
	if name, ok := roleDisplayNames[s.Role]; ok {
		return name
	}
	return roleDisplayNames[models.RoleUser]
}

// SnapshotSource provides the current session snapshot.
type SnapshotSource interface {
	Snapshot() models.Session
}

// Evaluator answers authorization questions against the live session.
// Every call reads a fresh snapshot.
type Evaluator struct {
	source SnapshotSource
}

// NewEvaluator creates an evaluator over source.
func NewEvaluator(source SnapshotSource) *Evaluator {
	return &Evaluator{source: source}
}

func (e *Evaluator) snapshot() models.Session {
	if e == nil || e.source == nil {
		return models.Session{}
	}
	return e.source.Snapshot()
}

// HasPermission checks if the current session grants a capability.
func (e *Evaluator) HasPermission(capability string) bool {
	return HasPermission(e.snapshot(), capability)
}

// HasAnyPermission checks if the current session grants at least one of the capabilities.
func (e *Evaluator) HasAnyPermission(capabilities ...string) bool {
	s := e.snapshot()
	for _, c := range capabilities {
		if HasPermission(s, c) {
			return true
		}
	}
	return false
}

// IsRole checks the current session's role.
func (e *Evaluator) IsRole(candidate models.Role) bool {
	return IsRole(e.snapshot(), candidate)
}

// RoleDisplayName returns the label for the current session's role.
func (e *Evaluator) RoleDisplayName() string {
	return RoleDisplayName(e.snapshot())
}
