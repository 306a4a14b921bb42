package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization name already exists")
)

// OrganizationUpdate carries the optional fields of a partial organization
// update. Nil fields are left unchanged. The postgres implementation maps
// these to columns through a single declared field table.
type OrganizationUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// OrganizationStore defines the interface for organization storage operations.
type OrganizationStore interface {
	// Create creates a new organization.
	// Returns ErrOrganizationAlreadyExists if the name is taken.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// GetByName retrieves an organization by its unique name.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetByName(ctx context.Context, name string) (*models.Organization, error)

	// List returns all organizations ordered by name.
	List(ctx context.Context) ([]*models.Organization, error)

	// Update applies a partial update to an organization.
	// Returns ErrOrganizationNotFound if the organization doesn't exist and
	// ErrOrganizationAlreadyExists if a rename collides with another org.
	Update(ctx context.Context, orgID uuid.UUID, update *OrganizationUpdate) (*models.Organization, error)
}
