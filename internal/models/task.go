package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	bun.BaseModel `bun:"table:tasks"`

	ID     int64 `bun:"id,pk,autoincrement"`
	UserID int64 `bun:"user_id,notnull"`
	User   *User `bun:"rel:belongs-to,join:user_id=id"`

	Title       string  `bun:"title,notnull"`
	Description *string `bun:"description"`
	Status      string  `bun:"status,notnull,default:'pending'"`

	DueDate   time.Time `bun:"due_date,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
