package services

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/daniosoriov/todo-manager/internal/models"
	"github.com/daniosoriov/todo-manager/internal/token"
)

var wrongCredentialsError = &ErrorWithCode{
	Message: "Invalid credentials",
	Code:    http.StatusUnauthorized,
}

var invalidRefreshTokenError = &ErrorWithCode{
	Message: "Invalid refresh token",
	Code:    http.StatusUnauthorized,
}

var userNotFoundError = &ErrorWithCode{
	Message: "User not found",
	Code:    http.StatusUnauthorized,
}

// Login verifies credentials. A missing user and a wrong password produce the
// same error so callers cannot probe which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, wrongCredentialsError
	}

	if err := s.checkPassword(password, user); err != nil {
		return nil, wrongCredentialsError
	}

	return user, nil
}

// Authenticate is the only place tokens are minted. It signs a fresh access
// and refresh token with their respective secrets and upserts the refresh
// token into the ledger, superseding whatever was there before.
func (s *Service) Authenticate(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, err := token.Sign(user.ID, s.config.JwtSecret, s.config.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := token.Sign(user.ID, s.config.JwtRefreshSecret, s.config.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	savedToken := &models.Token{
		UserID:    user.ID,
		Token:     refreshToken,
		UpdatedAt: time.Now(),
	}
	if err := s.tokens.Upsert(ctx, savedToken); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// RefreshTokens exchanges a refresh token whose signature was already checked
// by the refresh gate. The ledger lookup rejects superseded tokens even when
// they are still cryptographically valid, and the user re-fetch rejects tokens
// for accounts deleted since issuance. On success the pair is re-issued and
// the old refresh token is rotated out.
func (s *Service) RefreshTokens(ctx context.Context, userID int64, presented string) (string, string, error) {
	stored, err := s.tokens.Find(ctx, userID, presented)
	if err != nil {
		return "", "", err
	}

	if stored == nil || subtle.ConstantTimeCompare([]byte(stored.Token), []byte(presented)) != 1 {
		return "", "", invalidRefreshTokenError
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", "", err
	}

	if user == nil {
		return "", "", userNotFoundError
	}

	return s.Authenticate(ctx, user)
}
