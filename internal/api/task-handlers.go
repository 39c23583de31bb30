package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matheodrd/httphelper/handler"

	"github.com/daniosoriov/todo-manager/internal/api/validations"
	"github.com/daniosoriov/todo-manager/internal/models/dto"
	"github.com/daniosoriov/todo-manager/internal/services"
)

type TaskErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) GetTasks() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		tasks, err := s.service.GetUserTasks(r.Context(), identity.UserID)
		if err != nil {
			return err
		}

		if err := handler.Encode[[]dto.TaskDTO](dto.TasksToDTO(tasks), http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func (s *Server) GetTask() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			return encodeTaskError(w, "Invalid task id", http.StatusBadRequest)
		}

		task, err := s.service.GetUserTaskByID(r.Context(), identity.UserID, taskID)
		if err != nil {
			return err
		}

		if task == nil {
			return encodeTaskError(w, "Task not found", http.StatusNotFound)
		}

		if err := handler.Encode[dto.TaskDTO](*dto.TaskToDTO(task), http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func (s *Server) CreateTask() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		raw, err := readBody(r)
		if err != nil {
			return err
		}

		if err := validations.CheckAllowedFields(raw, validations.CreateTaskFields); err != nil {
			return encodeFieldError(w, err)
		}

		body, err := handler.Decode[validations.CreateTaskValidator](r)
		if err != nil {
			if validationErrors := decodeValidationError(err); validationErrors != nil {
				return buildValidationErrors(w, validationErrors)
			}
			return err
		}

		task, err := s.service.CreateTaskForUser(r.Context(), identity.UserID, &body)
		if err != nil {
			return err
		}

		if err := handler.Encode[dto.TaskDTO](*dto.TaskToDTO(task), http.StatusCreated, w); err != nil {
			return err
		}
		return nil
	})
}

func (s *Server) UpdateTask() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			return encodeTaskError(w, "Invalid task id", http.StatusBadRequest)
		}

		raw, err := readBody(r)
		if err != nil {
			return err
		}

		if err := validations.CheckAllowedFields(raw, validations.UpdateTaskFields); err != nil {
			return encodeFieldError(w, err)
		}

		var updates map[string]json.RawMessage
		if err := json.Unmarshal(raw, &updates); err != nil || len(updates) == 0 {
			return encodeTaskError(w, "No updates provided", http.StatusBadRequest)
		}

		body, err := handler.Decode[validations.UpdateTaskValidator](r)
		if err != nil {
			if validationErrors := decodeValidationError(err); validationErrors != nil {
				return buildValidationErrors(w, validationErrors)
			}
			return err
		}

		if _, err := s.service.UpdateUserTask(r.Context(), identity.UserID, taskID, &body); err != nil {
			if ewc := services.DecodeErrorWithCode(err); ewc != nil {
				return encodeTaskError(w, ewc.Message, ewc.Code)
			}
			return err
		}

		updated := MessageResponse{Message: "Task updated successfully"}
		if err := handler.Encode[MessageResponse](updated, http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func (s *Server) DeleteTask() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		taskID, err := taskIDParam(r)
		if err != nil {
			return encodeTaskError(w, "Invalid task id", http.StatusBadRequest)
		}

		if err := s.service.DeleteUserTask(r.Context(), identity.UserID, taskID); err != nil {
			if ewc := services.DecodeErrorWithCode(err); ewc != nil {
				return encodeTaskError(w, ewc.Message, ewc.Code)
			}
			return err
		}

		deleted := MessageResponse{Message: "Task deleted successfully"}
		if err := handler.Encode[MessageResponse](deleted, http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func taskIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("taskId"), 10, 64)
}

func encodeTaskError(w http.ResponseWriter, message string, code int) error {
	return handler.Encode(TaskErrorResponse{Error: message}, code, w)
}

func encodeFieldError(w http.ResponseWriter, err error) error {
	var ve validations.ValidationError
	if errors.As(err, &ve) {
		return handler.Encode[validations.ValidationError](ve, http.StatusBadRequest, w)
	}
	return err
}
