package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/matheodrd/httphelper/handler"

	"github.com/daniosoriov/todo-manager/internal/api/validations"
	"github.com/daniosoriov/todo-manager/internal/services"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) Register() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		body, err := handler.Decode[validations.RegisterValidator](r)
		if err != nil {
			if validationErrors := decodeValidationError(err); validationErrors != nil {
				return buildValidationErrors(w, validationErrors)
			}
			return err
		}

		if _, err := s.service.Register(r.Context(), body); err != nil {
			if ewc := services.DecodeErrorWithCode(err); ewc != nil {
				return handler.Encode(AuthError{Error: ewc.Message}, ewc.Code, w)
			}
			return err
		}

		registered := MessageResponse{Message: "User registered successfully"}
		if err := handler.Encode[MessageResponse](registered, http.StatusCreated, w); err != nil {
			return err
		}

		return nil
	})
}

func (s *Server) Login() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		body, err := handler.Decode[validations.LoginValidator](r)
		if err != nil {
			if validationErrors := decodeValidationError(err); validationErrors != nil {
				return buildValidationErrors(w, validationErrors)
			}
			return err
		}

		user, err := s.service.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			if ewc := services.DecodeErrorWithCode(err); ewc != nil {
				return handler.Encode(MessageResponse{Message: ewc.Message}, ewc.Code, w)
			}
			return err
		}

		accessToken, refreshToken, err := s.service.Authenticate(r.Context(), user)
		if err != nil {
			return err
		}

		pair := TokenPairResponse{Token: accessToken, RefreshToken: refreshToken}
		if err := handler.Encode[TokenPairResponse](pair, http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func (s *Server) RefreshToken() http.HandlerFunc {
	return handler.Handler(func(w http.ResponseWriter, r *http.Request) error {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}

		body, err := handler.Decode[validations.RefreshValidator](r)
		if err != nil {
			if validationErrors := decodeValidationError(err); validationErrors != nil {
				return buildValidationErrors(w, validationErrors)
			}
			return err
		}

		accessToken, refreshToken, err := s.service.RefreshTokens(r.Context(), identity.UserID, body.Token)
		if err != nil {
			if ewc := services.DecodeErrorWithCode(err); ewc != nil {
				return handler.Encode(MessageResponse{Message: ewc.Message}, ewc.Code, w)
			}
			return err
		}

		pair := TokenPairResponse{Token: accessToken, RefreshToken: refreshToken}
		if err := handler.Encode[TokenPairResponse](pair, http.StatusOK, w); err != nil {
			return err
		}
		return nil
	})
}

func decodeValidationError(err error) validator.ValidationErrors {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func buildValidationErrors(w http.ResponseWriter, errors validator.ValidationErrors) error {
	errs := make(map[string]string)

	for _, fieldErr := range errors {
		errs[fieldErr.Field()] = fmt.Sprintf("failed on '%s'", fieldErr.Tag())
	}

	validationErrorResponse := validations.ValidationError{Message: "Validation Error", Details: errs}
	if err := handler.Encode[validations.ValidationError](validationErrorResponse, http.StatusBadRequest, w); err != nil {
		return err
	}

	return nil // Finally return nil to fully control the HTTP error
}
