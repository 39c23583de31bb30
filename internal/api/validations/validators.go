package validations

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/daniosoriov/todo-manager/internal/helpers"
)

type ValidationError struct {
	Message string            `json:"message"`
	Details map[string]string `json:"data"`
}

func (e ValidationError) Error() string {
	return e.Message
}

type RegisterValidator struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (r RegisterValidator) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return nil
}

type LoginValidator struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l LoginValidator) Validate() error {
	validate := validator.New()
	if err := validate.Struct(l); err != nil {
		return err
	}
	return nil
}

type RefreshValidator struct {
	Token string `json:"token" validate:"required"`
}

func (r RefreshValidator) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return nil
}

type CreateTaskValidator struct {
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description" validate:"omitempty"`
	Status      string    `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     time.Time `json:"dueDate" validate:"required,gt"`
}

func (t CreateTaskValidator) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return err
	}
	return nil
}

type UpdateTaskValidator struct {
	Title       *string            `json:"title" validate:"omitempty,min=1"`
	Description helpers.NullString `json:"description"`
	Status      *string            `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	DueDate     *time.Time         `json:"dueDate" validate:"omitempty,gt"`
}

func (t UpdateTaskValidator) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return err
	}
	return nil
}

// Static allow-lists per operation. Payload fields are checked against these,
// never against the persistence layer's schema.
var (
	CreateTaskFields = []string{"title", "description", "status", "dueDate"}
	UpdateTaskFields = []string{"title", "description", "status", "dueDate"}
)

// CheckAllowedFields rejects payloads containing fields outside the given
// allow-list. Malformed JSON is reported the same way so callers have a single
// error shape to surface as 400.
func CheckAllowedFields(data []byte, allowed []string) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return ValidationError{
			Message: "Validation Error",
			Details: map[string]string{"body": "must be a JSON object"},
		}
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, field := range allowed {
		allowedSet[field] = struct{}{}
	}

	details := make(map[string]string)
	for field := range body {
		if _, ok := allowedSet[field]; !ok {
			details[field] = fmt.Sprintf("unknown field %q", field)
		}
	}

	if len(details) > 0 {
		return ValidationError{Message: "Invalid fields in the request", Details: details}
	}
	return nil
}
