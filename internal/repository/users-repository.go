package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/daniosoriov/todo-manager/internal/models"
)

// ErrDuplicateEmail is returned when an insert hits the unique index on
// users.email. The index, not the application, is the authority on uniqueness.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

type Users struct {
	log *slog.Logger
	bun *bun.DB
}

func NewUsers(db *bun.DB, log *slog.Logger) *Users {
	return &Users{
		log: log,
		bun: db,
	}
}

func (u *Users) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{ID: id}
	err := u.bun.NewSelect().
		Model(user).
		WherePK().
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return user, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *Users) Insert(ctx context.Context, user *models.User) error {
	if _, err := u.bun.NewInsert().Model(user).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}
