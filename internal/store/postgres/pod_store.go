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

// PodStore implements store.PodStore using PostgreSQL.
type PodStore struct {
	pool *pgxpool.Pool
}

// NewPodStore creates a new PostgreSQL-backed pod store.
func NewPodStore(pool *pgxpool.Pool) *PodStore {
	return &PodStore{
		pool: pool,
	}
}

// Create creates a new pod in the database.
func (s *PodStore) Create(ctx context.Context, pod *models.Pod) error {
	query := `
		INSERT INTO pods (
			pod_id, batch_id, pod_name, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		pod.PodID,
		pod.BatchID,
		pod.Name,
		pod.IsActive,
		pod.CreatedAt,
		pod.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPodAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrBatchNotFound
		}
		return fmt.Errorf("failed to create pod: %w", err)
	}

	log.Debug().
		Str("pod_id", pod.PodID.String()).
		Str("pod_name", pod.Name).
		Msg("Created pod")

	return nil
}

// List returns all pods, optionally filtered by batch ID.
func (s *PodStore) List(ctx context.Context, batchID *uuid.UUID) ([]*models.Pod, error) {
	query := `
		SELECT pod_id, batch_id, pod_name, is_active, created_at, updated_at
		FROM pods
	`

	var args []any
	if batchID != nil {
		query += ` WHERE batch_id = $1`
		args = append(args, *batchID)
	}
	query += ` ORDER BY pod_name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	defer rows.Close()

	var pods []*models.Pod
	for rows.Next() {
		var p models.Pod
		err := rows.Scan(
			&p.PodID,
			&p.BatchID,
			&p.Name,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pod: %w", err)
		}
		pods = append(pods, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pods: %w", err)
	}

	return pods, nil
}

// Update replaces the mutable fields of a pod.
func (s *PodStore) Update(ctx context.Context, pod *models.Pod) error {
	pod.UpdatedAt = time.Now()

	query := `
		UPDATE pods SET
			pod_name = $2,
			is_active = $3,
			updated_at = $4
		WHERE pod_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		pod.PodID,
		pod.Name,
		pod.IsActive,
		pod.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrPodAlreadyExists
		}
		return fmt.Errorf("failed to update pod: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrPodNotFound
	}

	log.Debug().
		Str("pod_id", pod.PodID.String()).
		Msg("Updated pod")

	return nil
}
