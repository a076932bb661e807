package memory

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/adminconsole/internal/identity"
	"github.com/wolfeidau/adminconsole/internal/models"
)

type account struct {
	identity.Account
	password string
}

// Store implements identity.Store, identity.PrincipalLookup and
// identity.ProfileUpdater using in-memory storage.
// This implementation is for testing and demos only - data is lost on restart.
type Store struct {
	mu sync.RWMutex

	accounts       map[string]*account             // principal_id -> account
	accountsByMail map[string]*account             // normalized email -> account
	organizations  map[string]*models.Organization // org_id -> Organization
}

var (
	_ identity.Store           = (*Store)(nil)
	_ identity.PrincipalLookup = (*Store)(nil)
	_ identity.ProfileUpdater  = (*Store)(nil)
)

// NewStore creates a new empty in-memory identity store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*account),
		accountsByMail: make(map[string]*account),
		organizations:  make(map[string]*models.Organization),
	}
}

// CreateOrganization registers an organization. A missing OrgID is generated.
func (s *Store) CreateOrganization(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if org.OrgID == "" {
		org.OrgID = uuid.Must(uuid.NewV7()).String()
	}

	if _, exists := s.organizations[org.OrgID]; exists {
		return identity.ErrOrganizationAlreadyExists
	}

	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now

	// Clone to avoid external modifications
	clone := *org
	s.organizations[org.OrgID] = &clone

	return nil
}

// GetOrganization retrieves an organization by ID.
func (s *Store) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, identity.ErrOrganizationNotFound
	}

	// Clone to avoid external modifications
	clone := *org
	return &clone, nil
}

// CreateAccount registers an account with its password. A missing
// PrincipalID is generated. If OrganizationID is set the organization must
// exist, and the account inherits its tenant when TenantID is empty.
func (s *Store) CreateAccount(ctx context.Context, acct *identity.Account, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct.PrincipalID == "" {
		acct.PrincipalID = uuid.Must(uuid.NewV7()).String()
	}
	acct.Email = identity.NormalizeEmail(acct.Email)

	if _, exists := s.accounts[acct.PrincipalID]; exists {
		return identity.ErrAccountAlreadyExists
	}
	if _, exists := s.accountsByMail[acct.Email]; exists {
		return identity.ErrAccountAlreadyExists
	}

	if err := s.checkOrganization(acct); err != nil {
		return err
	}

	// Clone to avoid external modifications
	clone := &account{Account: *acct, password: password}
	s.accounts[clone.PrincipalID] = clone
	s.accountsByMail[clone.Email] = clone

	return nil
}

// checkOrganization must be called with the lock held.
func (s *Store) checkOrganization(acct *identity.Account) error {
	if acct.OrganizationID == "" {
		return nil
	}

	org, exists := s.organizations[acct.OrganizationID]
	if !exists {
		return identity.ErrOrganizationNotFound
	}

	if acct.TenantID == "" {
		acct.TenantID = org.TenantID
	}
	if acct.TenantID != org.TenantID {
		return identity.ErrOrganizationMismatch
	}

	return nil
}

// Authenticate checks the credentials against the stored accounts.
// Unknown emails and wrong passwords fail the same way.
func (s *Store) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, exists := s.accountsByMail[identity.NormalizeEmail(creds.Email)]
	if !exists {
		log.Debug().Msg("authentication failed: unknown account")
		return nil, identity.ErrAuthenticationFailed
	}

	if subtle.ConstantTimeCompare([]byte(acct.password), []byte(creds.Password)) != 1 {
		log.Debug().Str("principal_id", acct.PrincipalID).Msg("authentication failed: password mismatch")
		return nil, identity.ErrAuthenticationFailed
	}

	clone := acct.Account
	return &clone, nil
}

// Lookup retrieves an account by principal ID.
func (s *Store) Lookup(ctx context.Context, principalID string) (*identity.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, exists := s.accounts[principalID]
	if !exists {
		return nil, identity.ErrAccountNotFound
	}

	clone := acct.Account
	return &clone, nil
}

// UpdateProfile applies the patch to the stored account.
func (s *Store) UpdateProfile(ctx context.Context, principalID string, patch identity.ProfilePatch) (*identity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.accounts[principalID]
	if !exists {
		return nil, identity.ErrAccountNotFound
	}

	updated := acct.Account
	p := patch.Apply(updated.Principal())
	updated.DisplayName = p.DisplayName
	updated.Email = p.Email
	updated.OrganizationID = p.OrganizationID

	if updated.Email != acct.Email {
		if _, taken := s.accountsByMail[updated.Email]; taken {
			return nil, identity.ErrAccountAlreadyExists
		}
	}

	if err := s.checkOrganization(&updated); err != nil {
		return nil, err
	}

	delete(s.accountsByMail, acct.Email)
	acct.Account = updated
	s.accountsByMail[acct.Email] = acct

	clone := acct.Account
	return &clone, nil
}
