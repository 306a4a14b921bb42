package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// BatchStore implements store.BatchStore using PostgreSQL.
type BatchStore struct {
	pool *pgxpool.Pool
}

// NewBatchStore creates a new PostgreSQL-backed batch store.
func NewBatchStore(pool *pgxpool.Pool) *BatchStore {
	return &BatchStore{
		pool: pool,
	}
}

// Create creates a new batch in the database.
func (s *BatchStore) Create(ctx context.Context, batch *models.Batch) error {
	query := `
		INSERT INTO batches (
			batch_id, org_id, batch_name, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		batch.BatchID,
		batch.OrgID,
		batch.Name,
		batch.IsActive,
		batch.CreatedAt,
		batch.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrBatchAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to create batch: %w", err)
	}

	log.Debug().
		Str("batch_id", batch.BatchID.String()).
		Str("batch_name", batch.Name).
		Msg("Created batch")

	return nil
}

// List returns all batches, optionally filtered by organization ID.
func (s *BatchStore) List(ctx context.Context, orgID *uuid.UUID) ([]*models.Batch, error) {
	query := `
		SELECT batch_id, org_id, batch_name, is_active, created_at, updated_at
		FROM batches
	`

	var args []any
	if orgID != nil {
		query += ` WHERE org_id = $1`
		args = append(args, *orgID)
	}
	query += ` ORDER BY batch_name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		var b models.Batch
		err := rows.Scan(
			&b.BatchID,
			&b.OrgID,
			&b.Name,
			&b.IsActive,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}

	return batches, nil
}

// Update replaces the mutable fields of a batch.
func (s *BatchStore) Update(ctx context.Context, batch *models.Batch) error {
	batch.UpdatedAt = time.Now()

	query := `
		UPDATE batches SET
			batch_name = $2,
			is_active = $3,
			updated_at = $4
		WHERE batch_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		batch.BatchID,
		batch.Name,
		batch.IsActive,
		batch.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrBatchAlreadyExists
		}
		return fmt.Errorf("failed to update batch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrBatchNotFound
	}

	log.Debug().
		Str("batch_id", batch.BatchID.String()).
		Msg("Updated batch")

	return nil
}
