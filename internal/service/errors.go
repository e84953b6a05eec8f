package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrEmptyPatch indicates an update request carried no fields.
	ErrEmptyPatch = errors.New("update contains no fields")

	// ErrPasswordMismatch indicates the register confirmation did not match the password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials indicates a login with an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a ServiceError for the task service.
func NewTaskServiceError(operation string, err error) *ServiceError {
	return &ServiceError{Service: "task", Operation: operation, Err: err}
}

// NewUserServiceError creates a ServiceError for the user service.
func NewUserServiceError(operation string, err error) *ServiceError {
	return &ServiceError{Service: "user", Operation: operation, Err: err}
}
