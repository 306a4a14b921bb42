package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store/memory"
)

func TestAuthenticatorLogin(t *testing.T) {
	ctx := context.Background()

	db := memory.NewDB()
	stores := memory.NewStores(db)

	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	hash, err := HashPassword("s3cret-passw0rd")
	require.NoError(t, err)

	active := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Role:         models.RoleSuperadmin,
		Email:        "admin@example.com",
		Username:     "admin",
		FirstName:    "Ada",
		LastName:     "Admin",
		PasswordHash: hash,
		IsActive:     true,
	}
	require.NoError(t, stores.Users.Create(ctx, active))

	inactive := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Role:         models.RoleOrguser,
		Email:        "gone@example.com",
		Username:     "gone",
		PasswordHash: hash,
		IsActive:     false,
	}
	require.NoError(t, stores.Users.Create(ctx, inactive))

	a := NewAuthenticator(stores.Users, issuer)

	t.Run("login with email", func(t *testing.T) {
		user, token, err := a.Login(ctx, "admin@example.com", "s3cret-passw0rd")
		require.NoError(t, err)
		require.Equal(t, active.UserID, user.UserID)
		require.NotEmpty(t, token)

		claims, err := issuer.VerifyToken(token)
		require.NoError(t, err)
		require.Equal(t, models.RoleSuperadmin, claims.Role)
	})

	t.Run("login with username", func(t *testing.T) {
		user, token, err := a.Login(ctx, "admin", "s3cret-passw0rd")
		require.NoError(t, err)
		require.Equal(t, active.UserID, user.UserID)
		require.NotEmpty(t, token)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		user, token, err := a.Login(ctx, "nobody@example.com", "s3cret-passw0rd")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Nil(t, user)
		require.Empty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		user, token, err := a.Login(ctx, "admin@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Nil(t, user)
		require.Empty(t, token)
	})

	t.Run("inactive account", func(t *testing.T) {
		user, token, err := a.Login(ctx, inactive.Email, "s3cret-passw0rd")
		require.ErrorIs(t, err, ErrAccountInactive)
		require.Nil(t, user)
		require.Empty(t, token)
	})

	t.Run("inactive account with wrong password", func(t *testing.T) {
		user, token, err := a.Login(ctx, inactive.Email, "wrong")
		require.ErrorIs(t, err, ErrAccountInactive)
		require.Nil(t, user)
		require.Empty(t, token)
	})
}
