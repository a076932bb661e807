package session

import "errors"

// Errors
var (
	// ErrInvalidCredentials is returned for every authentication failure,
	// whatever the underlying cause.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTenantMismatch is returned when the account belongs to another tenant.
	ErrTenantMismatch = errors.New("account does not belong to the requested tenant")

	// ErrSessionInconsistent is logged when the durable snapshot cannot be trusted.
	ErrSessionInconsistent = errors.New("stored session is inconsistent")

	// ErrProfileUpdateFailed is returned when a profile update cannot be applied.
	ErrProfileUpdateFailed = errors.New("profile update failed")
)
