package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch is a cohort of participants within an organization, divided into
// pods. Batch names are unique within their organization. Deactivation is
// logical (IsActive flag), never a row delete.
type Batch struct {
	BatchID   uuid.UUID `json:"batch_id"` // UUIDv7
	OrgID     uuid.UUID `json:"org_id"`   // FK to organizations
	Name      string    `json:"batch_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pod is a small sub-group within a batch with its own mentor and orguser
// assignments. Pod names are unique within their batch.
type Pod struct {
	PodID     uuid.UUID `json:"pod_id"` // UUIDv7
	BatchID   uuid.UUID `json:"batch_id"`
	Name      string    `json:"pod_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
