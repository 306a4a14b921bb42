package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

func newUser(role, email, username string, orgID *uuid.UUID) *models.User {
	now := time.Now()
	return &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Role:         role,
		OrgID:        orgID,
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create superadmin without org", func(t *testing.T) {
		st := NewUserStore(NewDB())

		err := st.Create(ctx, newUser(models.RoleSuperadmin, "root@example.com", "root", nil))
		require.NoError(t, err)
	})

	t.Run("orguser requires existing org", func(t *testing.T) {
		st := NewUserStore(NewDB())
		orgID := uuid.Must(uuid.NewV7())

		err := st.Create(ctx, newUser(models.RoleOrguser, "alice@example.com", "alice", &orgID))
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		st := NewUserStore(NewDB())

		require.NoError(t, st.Create(ctx, newUser(models.RoleSuperadmin, "root@example.com", "root", nil)))

		err := st.Create(ctx, newUser(models.RoleSuperadmin, "root@example.com", "other", nil))
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		st := NewUserStore(NewDB())

		require.NoError(t, st.Create(ctx, newUser(models.RoleSuperadmin, "root@example.com", "root", nil)))

		err := st.Create(ctx, newUser(models.RoleSuperadmin, "other@example.com", "root", nil))
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})
}

func TestUserStore_GetByLogin(t *testing.T) {
	ctx := context.Background()
	st := NewUserStore(NewDB())

	user := newUser(models.RoleSuperadmin, "root@example.com", "root", nil)
	require.NoError(t, st.Create(ctx, user))

	t.Run("by email", func(t *testing.T) {
		got, err := st.GetByLogin(ctx, "root@example.com")
		require.NoError(t, err)
		require.Equal(t, user.UserID, got.UserID)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := st.GetByLogin(ctx, "root")
		require.NoError(t, err)
		require.Equal(t, user.UserID, got.UserID)
	})

	t.Run("inactive user still resolves", func(t *testing.T) {
		require.NoError(t, st.SetActive(ctx, user.UserID, false))

		got, err := st.GetByLogin(ctx, "root")
		require.NoError(t, err)
		require.False(t, got.IsActive)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := st.GetByLogin(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStore_ListByOrg(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	org := seedOrg(t, db)
	st := NewUserStore(db)

	require.NoError(t, st.Create(ctx, newUser(models.RoleOrgadmin, "admin@acme.test", "admin", &org.OrgID)))
	require.NoError(t, st.Create(ctx, newUser(models.RoleOrguser, "alice@acme.test", "alice", &org.OrgID)))
	require.NoError(t, st.Create(ctx, newUser(models.RoleSuperadmin, "root@example.com", "root", nil)))

	t.Run("all org users", func(t *testing.T) {
		users, err := st.ListByOrg(ctx, org.OrgID, nil)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("filtered by role", func(t *testing.T) {
		role := models.RoleOrguser
		users, err := st.ListByOrg(ctx, org.OrgID, &role)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "alice@acme.test", users[0].Email)
	})
}

func TestUserStore_SetActive(t *testing.T) {
	ctx := context.Background()
	st := NewUserStore(NewDB())

	t.Run("missing user", func(t *testing.T) {
		err := st.SetActive(ctx, uuid.Must(uuid.NewV7()), false)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		user := newUser(models.RoleSuperadmin, "root@example.com", "root", nil)
		require.NoError(t, st.Create(ctx, user))

		require.NoError(t, st.SetActive(ctx, user.UserID, false))
		got, err := st.Get(ctx, user.UserID)
		require.NoError(t, err)
		require.False(t, got.IsActive)

		require.NoError(t, st.SetActive(ctx, user.UserID, true))
		got, err = st.Get(ctx, user.UserID)
		require.NoError(t, err)
		require.True(t, got.IsActive)
	})
}
