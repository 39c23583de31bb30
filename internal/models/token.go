package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Token is the refresh token ledger: one row per user holding the single
// currently valid refresh token. Issuing a new pair overwrites the row, which
// invalidates the previous refresh token.
type Token struct {
	bun.BaseModel `bun:"table:refresh_tokens"`

	UserID    int64     `bun:"user_id,pk"`
	User      *User     `bun:"rel:belongs-to,join:user_id=id"`
	Token     string    `bun:"token,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
