package models

import "time"

// Organization represents an organization inside a tenant.
// Each organization can have multiple principals.
type Organization struct {
	OrgID     string
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
