package services

import (
	"errors"
	"log/slog"

	"github.com/daniosoriov/todo-manager/internal/config"
	"github.com/daniosoriov/todo-manager/internal/repository"
)

type Service struct {
	log    *slog.Logger
	config *config.Config
	users  repository.UserRepository
	tokens repository.TokenRepository
	tasks  repository.TaskRepository
}

func NewService(log *slog.Logger, config *config.Config, users repository.UserRepository, tokens repository.TokenRepository, tasks repository.TaskRepository) *Service {
	return &Service{
		log:    log,
		config: config,
		users:  users,
		tokens: tokens,
		tasks:  tasks,
	}
}

type ErrorWithCode struct {
	Message string `json:"error"`
	Code    int    `json:"-"`
}

func (e ErrorWithCode) Error() string {
	return e.Message
}

func DecodeErrorWithCode(err error) *ErrorWithCode {
	var ewc *ErrorWithCode
	if errors.As(err, &ewc) {
		return ewc
	}
	return nil
}
