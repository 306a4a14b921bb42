package models

import (
	"time"

	"github.com/google/uuid"
)

// Mentor guides one or more pods. Mentors are identified by email and are not
// scoped to a single organization.
type Mentor struct {
	MentorID  uuid.UUID `json:"mentor_id"` // UUIDv7
	Name      string    `json:"mentor_name"`
	Email     string    `json:"mentor_email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Concept is a curriculum unit assignable to a batch.
type Concept struct {
	ConceptID uuid.UUID `json:"concept_id"` // UUIDv7
	Name      string    `json:"concept_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
