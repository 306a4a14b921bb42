package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names. Every user carries exactly one role.
const (
	RoleSuperadmin = "superadmin"
	RoleOrgadmin   = "orgadmin"
	RoleOrguser    = "orguser"
	RoleMentor     = "mentor"
)

// User is an authenticated principal. Superadmins are not attached to an
// organization, so OrgID is nil for them.
type User struct {
	UserID    uuid.UUID  `json:"user_id"` // UUIDv7
	Role      string     `json:"role"`
	OrgID     *uuid.UUID `json:"organization_id,omitempty"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`

	// bcrypt digest, never serialized.
	PasswordHash string `json:"-"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
