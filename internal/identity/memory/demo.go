package memory

import (
	"context"
	"fmt"

	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/models"
)

const (
	DemoTenantID = "techcorp"
	DemoPassword = "password123"
	demoOrgName  = "TechCorp Engineering"
	demoOrgID    = "org-techcorp-eng"
)

// DemoAccounts are the accounts seeded by NewDemoStore.
var DemoAccounts = []identity.Account{
	{PrincipalID: "usr-admin", DisplayName: "System Admin", Email: "admin@techcorp.com", Role: models.RoleSystemAdmin},
	{PrincipalID: "usr-sarah", DisplayName: "Sarah Manager", Email: "sarah.manager@techcorp.com", Role: models.RoleTenantAdmin},
	{PrincipalID: "usr-john", DisplayName: "John Developer", Email: "john.developer@techcorp.com", Role: models.RoleUser},
}

// NewDemoStore creates a store seeded with the techcorp demo tenant.
// Every demo account uses DemoPassword.
func NewDemoStore(ctx context.Context) (*Store, error) {
	s := NewStore()

	org := &models.Organization{OrgID: demoOrgID, TenantID: DemoTenantID, Name: demoOrgName}
	if err := s.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to seed organization: %w", err)
	}

	for _, a := range DemoAccounts {
		a.OrganizationID = org.OrgID
		if err := s.CreateAccount(ctx, &a, DemoPassword); err != nil {
			return nil, fmt.Errorf("failed to seed account %s: %w", a.Email, err)
		}
	}

	return s, nil
}
