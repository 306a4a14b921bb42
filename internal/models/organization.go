package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Each organization owns
// batches of orgusers and configures the capacity ceilings enforced when
// orgusers are assigned to pods.
type Organization struct {
	OrgID       uuid.UUID `json:"org_id"` // UUIDv7
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	// Capacity ceilings, immutable inputs to assignment admission checks.
	MaxUsersPerBatch int `json:"max_users_per_batch"`
	MaxUsersPerPod   int `json:"max_users_per_pod"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
