package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
)

// Sentinel errors for mentor and concept store operations
var (
	ErrMentorNotFound      = errors.New("mentor not found")
	ErrMentorAlreadyExists = errors.New("mentor email already exists")
	ErrConceptNotFound     = errors.New("concept not found")
)

// MentorStore defines the interface for mentor storage operations.
type MentorStore interface {
	// Create creates a new mentor.
	// Returns ErrMentorAlreadyExists if the email is taken.
	Create(ctx context.Context, mentor *models.Mentor) error

	// List returns all mentors ordered by name.
	List(ctx context.Context) ([]*models.Mentor, error)

	// Update replaces the mutable fields of a mentor.
	// Returns ErrMentorNotFound if the mentor doesn't exist.
	Update(ctx context.Context, mentor *models.Mentor) error

	// Delete removes a mentor by ID.
	// Returns ErrMentorNotFound if the mentor doesn't exist.
	Delete(ctx context.Context, mentorID uuid.UUID) error
}

// ConceptStore defines the interface for concept storage operations.
type ConceptStore interface {
	// Create creates a new concept.
	Create(ctx context.Context, concept *models.Concept) error

	// List returns all concepts ordered by name.
	List(ctx context.Context) ([]*models.Concept, error)

	// Update replaces the mutable fields of a concept.
	// Returns ErrConceptNotFound if the concept doesn't exist.
	Update(ctx context.Context, concept *models.Concept) error
}
