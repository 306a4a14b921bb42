package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// UserStore implements store.UserStore using in-memory storage.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new in-memory user store.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create creates a new user in memory.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if user.OrgID != nil {
		if _, exists := s.db.organizations[*user.OrgID]; !exists {
			return store.ErrOrganizationNotFound
		}
	}

	for _, existing := range s.db.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return store.ErrUserAlreadyExists
		}
	}

	clone := *user
	s.db.users[user.UserID] = &clone

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	user, exists := s.db.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByLogin retrieves a user whose email or username matches the identifier.
func (s *UserStore) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, user := range s.db.users {
		if user.Email == identifier || user.Username == identifier {
			clone := *user
			return &clone, nil
		}
	}

	return nil, store.ErrUserNotFound
}

// ListByOrg returns all users of an organization, optionally filtered by role.
func (s *UserStore) ListByOrg(ctx context.Context, orgID uuid.UUID, role *string) ([]*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var users []*models.User
	for _, user := range s.db.users {
		if user.OrgID == nil || *user.OrgID != orgID {
			continue
		}
		if role != nil && user.Role != *role {
			continue
		}
		clone := *user
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	return users, nil
}

// SetActive flips the active flag of a user.
func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	user, exists := s.db.users[userID]
	if !exists {
		return store.ErrUserNotFound
	}

	user.IsActive = active
	user.UpdatedAt = time.Now()

	return nil
}
