package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/daniosoriov/todo-manager/internal/api/validations"
	"github.com/daniosoriov/todo-manager/internal/models"
	"github.com/daniosoriov/todo-manager/internal/repository"
)

var duplicateEmailError = &ErrorWithCode{
	Message: "Email already registered",
	Code:    http.StatusBadRequest,
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Register creates the user record. The password is hashed exactly once, here,
// before anything is persisted. No tokens are issued: registration is followed
// by an explicit login.
func (s *Service) Register(ctx context.Context, body validations.RegisterValidator) (*models.User, error) {
	email := normalizeEmail(body.Email)

	hashed, err := s.hashPassword(body.Password)
	if err != nil {
		return nil, err
	}

	// Email check
	exists, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if exists != nil {
		return nil, duplicateEmailError
	}

	toInsertUser := &models.User{
		Email:        email,
		HashPassword: hashed,
	}

	// The unique index still decides under a racing duplicate
	if err := s.users.Insert(ctx, toInsertUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, duplicateEmailError
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, toInsertUser.ID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *Service) checkPassword(password string, user *models.User) error {
	return bcrypt.CompareHashAndPassword([]byte(user.HashPassword), []byte(password))
}
