package models

import "time"

// Session is the in-memory authorization state for the current user.
// Sessions are values: the session store hands out copies and never shares
// the principal pointer it owns.
type Session struct {
	Principal      *Principal
	Token          string
	TokenExpiresAt time.Time
	Role           Role
	Permissions    PermissionSet

	// Loading is set while a login or profile update waits on the identity store.
	Loading bool

	// Authenticated is true iff Token and Principal are set and TokenExpiresAt
	// was in the future when the session store last evaluated it.
	Authenticated bool
}

// IsExpired returns true if the token expiry is not after now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.TokenExpiresAt)
}

// Authorized returns true if the session may be consulted for authorization
// decisions. A session without a role is never authorized, even with a token.
func (s Session) Authorized() bool {
	return s.Authenticated && s.Role != RoleNone
}

// HasCredentials returns true if both a token and a principal are present.
func (s Session) HasCredentials() bool {
	return s.Token != "" && s.Principal.Valid()
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	s.Principal = s.Principal.Clone()
	return s
}
