package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory storage.
type OrganizationStore struct {
	db *DB
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore(db *DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

// Create creates a new organization in memory.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.organizations {
		if existing.Name == org.Name {
			return store.ErrOrganizationAlreadyExists
		}
	}

	clone := *org
	s.db.organizations[org.OrgID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, org := range s.db.organizations {
		if org.Name == name {
			clone := *org
			return &clone, nil
		}
	}

	return nil, store.ErrOrganizationNotFound
}

// List returns all organizations ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var orgs []*models.Organization
	for _, org := range s.db.organizations {
		clone := *org
		orgs = append(orgs, &clone)
	}

	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })

	return orgs, nil
}

// Update applies a partial update to an organization.
func (s *OrganizationStore) Update(ctx context.Context, orgID uuid.UUID, update *store.OrganizationUpdate) (*models.Organization, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	if update.Name != nil {
		for id, existing := range s.db.organizations {
			if id != orgID && existing.Name == *update.Name {
				return nil, store.ErrOrganizationAlreadyExists
			}
		}
		org.Name = *update.Name
	}
	if update.Description != nil {
		org.Description = *update.Description
	}
	if update.IsActive != nil {
		org.IsActive = *update.IsActive
	}
	org.UpdatedAt = time.Now()

	clone := *org
	return &clone, nil
}
