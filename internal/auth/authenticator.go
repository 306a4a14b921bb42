package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

var (
	// ErrInvalidCredentials is returned for both unknown identifiers and
	// wrong passwords, so login responses don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when the account exists but has been
	// deactivated, regardless of the supplied password.
	ErrAccountInactive = errors.New("account is inactive")
)

// Authenticator verifies login credentials and issues access tokens.
type Authenticator struct {
	users  store.UserStore
	issuer *TokenIssuer
}

// NewAuthenticator creates an authenticator backed by the given user store.
func NewAuthenticator(users store.UserStore, issuer *TokenIssuer) *Authenticator {
	return &Authenticator{users: users, issuer: issuer}
}

// Login verifies the identifier (email or username) and password, and
// returns the authenticated user with a signed access token.
func (a *Authenticator) Login(ctx context.Context, identifier, password string) (*models.User, string, error) {
	user, err := a.users.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a bcrypt comparison so unknown identifiers take as
			// long as wrong passwords.
			VerifyPassword("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.issuer.IssueToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.UserID.String()).Msg("failed to issue token")
		return nil, "", err
	}

	return user, token, nil
}
