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

// MentorStore implements store.MentorStore using PostgreSQL.
type MentorStore struct {
	pool *pgxpool.Pool
}

// NewMentorStore creates a new PostgreSQL-backed mentor store.
func NewMentorStore(pool *pgxpool.Pool) *MentorStore {
	return &MentorStore{
		pool: pool,
	}
}

// Create creates a new mentor in the database.
func (s *MentorStore) Create(ctx context.Context, mentor *models.Mentor) error {
	query := `
		INSERT INTO mentors (
			mentor_id, mentor_name, mentor_email, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		mentor.MentorID,
		mentor.Name,
		mentor.Email,
		mentor.IsActive,
		mentor.CreatedAt,
		mentor.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMentorAlreadyExists
		}
		return fmt.Errorf("failed to create mentor: %w", err)
	}

	log.Debug().
		Str("mentor_id", mentor.MentorID.String()).
		Str("mentor_email", mentor.Email).
		Msg("Created mentor")

	return nil
}

// List returns all mentors ordered by name.
func (s *MentorStore) List(ctx context.Context) ([]*models.Mentor, error) {
	query := `
		SELECT mentor_id, mentor_name, mentor_email, is_active, created_at, updated_at
		FROM mentors
		ORDER BY mentor_name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*models.Mentor
	for rows.Next() {
		var m models.Mentor
		err := rows.Scan(
			&m.MentorID,
			&m.Name,
			&m.Email,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mentor: %w", err)
		}
		mentors = append(mentors, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mentors: %w", err)
	}

	return mentors, nil
}

// Update replaces the mutable fields of a mentor.
func (s *MentorStore) Update(ctx context.Context, mentor *models.Mentor) error {
	mentor.UpdatedAt = time.Now()

	query := `
		UPDATE mentors SET
			mentor_name = $2,
			mentor_email = $3,
			is_active = $4,
			updated_at = $5
		WHERE mentor_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		mentor.MentorID,
		mentor.Name,
		mentor.Email,
		mentor.IsActive,
		mentor.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMentorAlreadyExists
		}
		return fmt.Errorf("failed to update mentor: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMentorNotFound
	}

	log.Debug().
		Str("mentor_id", mentor.MentorID.String()).
		Msg("Updated mentor")

	return nil
}

// Delete removes a mentor by ID. Pod assignments are cascade-deleted via FK.
func (s *MentorStore) Delete(ctx context.Context, mentorID uuid.UUID) error {
	query := `DELETE FROM mentors WHERE mentor_id = $1`

	result, err := s.pool.Exec(ctx, query, mentorID)
	if err != nil {
		return fmt.Errorf("failed to delete mentor: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMentorNotFound
	}

	log.Info().
		Str("mentor_id", mentorID.String()).
		Msg("Deleted mentor")

	return nil
}
