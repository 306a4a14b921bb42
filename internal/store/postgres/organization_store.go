package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

const organizationColumns = `org_id, name, description, max_users_per_batch, max_users_per_pod, is_active, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	var description *string
	err := row.Scan(
		&org.OrgID,
		&org.Name,
		&description,
		&org.MaxUsersPerBatch,
		&org.MaxUsersPerPod,
		&org.IsActive,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		org.Description = *description
	}
	return &org, nil
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, description, max_users_per_batch, max_users_per_pod,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	var description any
	if org.Description != "" {
		description = org.Description
	}

	_, err := s.pool.Exec(ctx, query,
		org.OrgID,
		org.Name,
		description,
		org.MaxUsersPerBatch,
		org.MaxUsersPerPod,
		org.IsActive,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE org_id = $1`

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// GetByName retrieves an organization by its unique name.
func (s *OrganizationStore) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE name = $1`

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization by name: %w", err)
	}

	return org, nil
}

// List returns all organizations ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations ORDER BY name ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

// organizationUpdateColumns is the single declared mapping from optional
// update fields to columns, so partial updates never assemble ad-hoc SQL.
var organizationUpdateColumns = []struct {
	column string
	value  func(u *store.OrganizationUpdate) any
	isSet  func(u *store.OrganizationUpdate) bool
}{
	{"name", func(u *store.OrganizationUpdate) any { return *u.Name }, func(u *store.OrganizationUpdate) bool { return u.Name != nil }},
	{"description", func(u *store.OrganizationUpdate) any { return *u.Description }, func(u *store.OrganizationUpdate) bool { return u.Description != nil }},
	{"is_active", func(u *store.OrganizationUpdate) any { return *u.IsActive }, func(u *store.OrganizationUpdate) bool { return u.IsActive != nil }},
}

// Update applies a partial update to an organization and returns the updated
// row. Capacity ceilings are immutable and deliberately absent from the
// column table.
func (s *OrganizationStore) Update(ctx context.Context, orgID uuid.UUID, update *store.OrganizationUpdate) (*models.Organization, error) {
	var setClauses []string
	args := []any{orgID}

	for _, col := range organizationUpdateColumns {
		if !col.isSet(update) {
			continue
		}
		args = append(args, col.value(update))
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col.column, len(args)))
	}

	if len(setClauses) == 0 {
		return s.Get(ctx, orgID)
	}

	args = append(args, time.Now())
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))

	query := `
		UPDATE organizations SET ` + strings.Join(setClauses, ", ") + `
		WHERE org_id = $1
		RETURNING ` + organizationColumns

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		if isUniqueViolation(err) {
			return nil, store.ErrOrganizationAlreadyExists
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Msg("Updated organization")

	return org, nil
}
