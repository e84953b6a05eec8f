package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/service"
	"github.com/phrazzld/tasktracker/internal/service/auth"
	"github.com/phrazzld/tasktracker/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// exposes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEmailExists):
		return "User already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, service.ErrEmptyPatch):
		return "Update must contain at least one field"
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Passwords do not match"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into "Invalid <field>: <reason>".
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				if len(fieldParts) >= 5 {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
