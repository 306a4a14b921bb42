package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("email or username already exists")
)

// UserStore defines the interface for user (principal) storage operations.
type UserStore interface {
	// Create creates a new user of any role.
	// Returns ErrUserAlreadyExists if the email or username is taken.
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetByLogin retrieves a user whose email or username matches the
	// identifier. Used by the login flow, so it does NOT filter on the
	// active flag; callers decide how inactive accounts are reported.
	// Returns ErrUserNotFound if no user matches.
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)

	// ListByOrg returns all users of an organization, optionally filtered
	// by role, ordered by creation time.
	ListByOrg(ctx context.Context, orgID uuid.UUID, role *string) ([]*models.User, error)

	// SetActive flips the active flag of a user.
	// Returns ErrUserNotFound if the user doesn't exist.
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
}
