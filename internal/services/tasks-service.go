package services

import (
	"context"
	"net/http"
	"time"

	"github.com/daniosoriov/todo-manager/internal/api/validations"
	"github.com/daniosoriov/todo-manager/internal/models"
)

var taskNotFoundError = &ErrorWithCode{
	Message: "Task not found",
	Code:    http.StatusNotFound,
}

func (s *Service) GetUserTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.FindAllOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) GetUserTaskByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.FindUserTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task == nil {
		return nil, nil
	}

	return task, nil
}

func (s *Service) CreateTaskForUser(ctx context.Context, userID int64, body *validations.CreateTaskValidator) (*models.Task, error) {
	status := body.Status
	if status == "" {
		status = models.TaskStatusPending
	}

	taskToInsert := &models.Task{
		UserID:      userID,
		Title:       body.Title,
		Description: body.Description,
		Status:      status,
		DueDate:     body.DueDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.tasks.Insert(ctx, taskToInsert); err != nil {
		return nil, err
	}

	return taskToInsert, nil
}

func (s *Service) UpdateUserTask(ctx context.Context, userID, taskID int64, body *validations.UpdateTaskValidator) (*models.Task, error) {
	exists, err := s.tasks.FindUserTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if exists == nil {
		return nil, taskNotFoundError
	}

	taskToUpdate := &models.Task{
		ID:        taskID,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	if body.Title != nil {
		taskToUpdate.Title = *body.Title
	}

	if body.Status != nil {
		taskToUpdate.Status = *body.Status
	}

	if body.DueDate != nil {
		taskToUpdate.DueDate = *body.DueDate
	}

	if body.Description.Set {
		if body.Description.Value != nil && *body.Description.Value != "" {
			taskToUpdate.Description = body.Description.Value
		} else {
			if err := s.tasks.ClearDescription(ctx, taskToUpdate); err != nil {
				return nil, err
			}
		}
	}

	if err := s.tasks.Update(ctx, taskToUpdate); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindUserTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) DeleteUserTask(ctx context.Context, userID, taskID int64) error {
	exists, err := s.tasks.FindUserTaskByID(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if exists == nil {
		return taskNotFoundError
	}

	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		return err
	}
	return nil
}
