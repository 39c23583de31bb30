package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/daniosoriov/todo-manager/internal/models"
)

type TaskRepository interface {
	FindAllOfUser(ctx context.Context, userID int64) ([]models.Task, error)
	FindUserTaskByID(ctx context.Context, userID, taskID int64) (*models.Task, error)
	Insert(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	ClearDescription(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, taskID int64) error
}

type Tasks struct {
	bun *bun.DB
}

func NewTasks(db *bun.DB) *Tasks {
	return &Tasks{db}
}

func (t *Tasks) FindAllOfUser(ctx context.Context, userID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := t.bun.NewSelect().
		Model(&tasks).
		Where("user_id = ?", userID).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *Tasks) FindUserTaskByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	var task models.Task
	err := t.bun.NewSelect().
		Model(&task).
		Where("user_id = ?", userID).
		Where("id = ?", taskID).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &task, nil
}

func (t *Tasks) Insert(ctx context.Context, task *models.Task) error {
	_, err := t.bun.NewInsert().
		Model(task).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func (t *Tasks) Update(ctx context.Context, task *models.Task) error {
	_, err := t.bun.NewUpdate().
		Model(task).
		Where("id = ?", task.ID).
		Where("user_id = ?", task.UserID).
		OmitZero().
		Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// ClearDescription nulls the description column, which OmitZero-based updates
// cannot express.
func (t *Tasks) ClearDescription(ctx context.Context, task *models.Task) error {
	_, err := t.bun.NewUpdate().
		Model(task).
		Set("description = NULL").
		Where("id = ?", task.ID).
		Where("user_id = ?", task.UserID).
		Exec(ctx)

	return err
}

func (t *Tasks) Delete(ctx context.Context, userID, taskID int64) error {
	_, err := t.bun.NewDelete().
		Model(&models.Task{}).
		Where("id = ?", taskID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}
