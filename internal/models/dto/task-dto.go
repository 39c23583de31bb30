package dto

import (
	"time"

	"github.com/daniosoriov/todo-manager/internal/models"
)

type TaskDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	CreatedAt   time.Time `json:"creationDate"`
}

func TaskToDTO(task *models.Task) *TaskDTO {
	return &TaskDTO{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
	}
}

func TasksToDTO(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i := range tasks {
		out[i] = *TaskToDTO(&tasks[i])
	}
	return out
}
