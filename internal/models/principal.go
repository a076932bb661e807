package models

// Principal represents an authenticated identity in the console.
// Principals belong to a tenant and an organization within that tenant.
type Principal struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email"`
	TenantID       string `json:"tenantId"`
	OrganizationID string `json:"organizationId"`
}

// Valid returns true if the principal carries an identifier.
func (p *Principal) Valid() bool {
	return p != nil && p.ID != ""
}

// Clone returns a copy of the principal, or nil.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
