package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/daniosoriov/todo-manager/internal/models"
)

type TokenRepository interface {
	Upsert(ctx context.Context, token *models.Token) error
	Find(ctx context.Context, userID int64, refreshToken string) (*models.Token, error)
}

type Tokens struct {
	bun *bun.DB
}

func NewTokens(db *bun.DB) *Tokens {
	return &Tokens{db}
}

// Upsert replaces the user's refresh token in a single statement. The ON
// CONFLICT clause is what keeps the one-token-per-user invariant under
// concurrent refreshes: last committed write wins.
func (t *Tokens) Upsert(ctx context.Context, token *models.Token) error {
	_, err := t.bun.NewInsert().
		Model(token).
		On("CONFLICT (user_id) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	return err
}

// Find matches on both user id and token value. A superseded refresh token no
// longer matches its row and comes back as not found.
func (t *Tokens) Find(ctx context.Context, userID int64, refreshToken string) (*models.Token, error) {
	var token models.Token
	err := t.bun.NewSelect().
		Model(&token).
		Where("user_id = ?", userID).
		Where("token = ?", refreshToken).
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &token, nil
}
