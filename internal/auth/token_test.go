package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tinymagiq/podworks/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	orgID := uuid.Must(uuid.NewV7())
	return &models.User{
		UserID:   uuid.Must(uuid.NewV7()),
		Role:     models.RoleOrguser,
		OrgID:    &orgID,
		Email:    "alice@example.com",
		Username: "alice",
	}
}

func TestNewTokenIssuer(t *testing.T) {
	t.Run("secret too short", func(t *testing.T) {
		ti, err := NewTokenIssuer("short", time.Hour)
		require.Error(t, err)
		require.Nil(t, ti)
	})

	t.Run("valid secret", func(t *testing.T) {
		ti, err := NewTokenIssuer(testSecret, time.Hour)
		require.NoError(t, err)
		require.NotNil(t, ti)
	})
}

func TestIssueAndVerifyToken(t *testing.T) {
	ti, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	user := testUser()

	t.Run("round trip", func(t *testing.T) {
		tokenStr, err := ti.IssueToken(user)
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.NoError(t, err)
		require.Equal(t, user.UserID.String(), claims.Subject)
		require.Equal(t, models.RoleOrguser, claims.Role)
		require.Equal(t, user.OrgID.String(), claims.OrgID)
		require.Equal(t, "alice@example.com", claims.Email)
		require.Equal(t, "alice", claims.Username)

		userID, err := claims.UserID()
		require.NoError(t, err)
		require.Equal(t, user.UserID, userID)
	})

	t.Run("superadmin has no org claim", func(t *testing.T) {
		admin := &models.User{
			UserID:   uuid.Must(uuid.NewV7()),
			Role:     models.RoleSuperadmin,
			Email:    "root@example.com",
			Username: "root",
		}
		tokenStr, err := ti.IssueToken(admin)
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.NoError(t, err)
		require.Empty(t, claims.OrgID)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewTokenIssuer(testSecret, -time.Hour)
		require.NoError(t, err)

		tokenStr, err := expired.IssueToken(user)
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Nil(t, claims)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenIssuer("ffffffffffffffffffffffffffffffff", time.Hour)
		require.NoError(t, err)

		tokenStr, err := other.IssueToken(user)
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Nil(t, claims)
	})

	t.Run("wrong signing algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.UserID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    tokenIssuer,
			},
		})
		tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Nil(t, claims)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   user.UserID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "someone-else",
			},
		})
		tokenStr, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		claims, err := ti.VerifyToken(tokenStr)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Nil(t, claims)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ti.VerifyToken("invalid.token.string")
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Nil(t, claims)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, VerifyPassword(hash, "correct horse battery staple"))
	require.False(t, VerifyPassword(hash, "wrong password"))
	require.False(t, VerifyPassword("not a hash", "correct horse battery staple"))
}
