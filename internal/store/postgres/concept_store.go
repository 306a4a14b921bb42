package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// ConceptStore implements store.ConceptStore using PostgreSQL.
type ConceptStore struct {
	pool *pgxpool.Pool
}

// NewConceptStore creates a new PostgreSQL-backed concept store.
func NewConceptStore(pool *pgxpool.Pool) *ConceptStore {
	return &ConceptStore{
		pool: pool,
	}
}

// Create creates a new concept in the database.
func (s *ConceptStore) Create(ctx context.Context, concept *models.Concept) error {
	query := `
		INSERT INTO concepts (
			concept_id, concept_name, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		concept.ConceptID,
		concept.Name,
		concept.IsActive,
		concept.CreatedAt,
		concept.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}

	log.Debug().
		Str("concept_id", concept.ConceptID.String()).
		Str("concept_name", concept.Name).
		Msg("Created concept")

	return nil
}

// List returns all concepts ordered by name.
func (s *ConceptStore) List(ctx context.Context) ([]*models.Concept, error) {
	query := `
		SELECT concept_id, concept_name, is_active, created_at, updated_at
		FROM concepts
		ORDER BY concept_name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*models.Concept
	for rows.Next() {
		var c models.Concept
		err := rows.Scan(
			&c.ConceptID,
			&c.Name,
			&c.IsActive,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		concepts = append(concepts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating concepts: %w", err)
	}

	return concepts, nil
}

// Update replaces the mutable fields of a concept.
func (s *ConceptStore) Update(ctx context.Context, concept *models.Concept) error {
	concept.UpdatedAt = time.Now()

	query := `
		UPDATE concepts SET
			concept_name = $2,
			is_active = $3,
			updated_at = $4
		WHERE concept_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		concept.ConceptID,
		concept.Name,
		concept.IsActive,
		concept.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update concept: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrConceptNotFound
	}

	log.Debug().
		Str("concept_id", concept.ConceptID.String()).
		Msg("Updated concept")

	return nil
}
