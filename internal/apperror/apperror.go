package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrConnection     = errors.New("connection error")
	ErrCascade        = errors.New("cascade failure")
	ErrTimeout        = errors.New("timeout")
)

// AppError pairs a sentinel with a human-readable message and a stable
// machine code for response bodies.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the machine-readable identifier for the error kind.
func (e *AppError) Code() string {
	switch {
	case errors.Is(e.Err, ErrConfiguration):
		return "configuration"
	case errors.Is(e.Err, ErrAuthentication):
		return "authentication"
	case errors.Is(e.Err, ErrValidation):
		return "validation"
	case errors.Is(e.Err, ErrNotFound):
		return "not_found"
	case errors.Is(e.Err, ErrConflict):
		return "conflict"
	case errors.Is(e.Err, ErrConnection):
		return "connection"
	case errors.Is(e.Err, ErrCascade):
		return "cascade_failed"
	case errors.Is(e.Err, ErrTimeout):
		return "timeout"
	default:
		return "internal"
	}
}

// CodeOf extracts the machine code from any error.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "internal"
}

func Configuration(message string) *AppError {
	return &AppError{Err: ErrConfiguration, Message: message}
}

func Authentication(message string) *AppError {
	return &AppError{Err: ErrAuthentication, Message: message}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func NotFound(resource, id string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found with id %s", resource, id)}
}

func Conflict(resource, id string) *AppError {
	return &AppError{Err: ErrConflict, Message: fmt.Sprintf("%s already exists with id %s", resource, id)}
}

func Connection(cause error) *AppError {
	return &AppError{Err: ErrConnection, Message: fmt.Sprintf("database unreachable: %v", cause)}
}

// CascadeFailed marks a failure inside the unlink-then-delete sequence so
// operators can tell which step needs reconciling.
func CascadeFailed(step string, cause error) *AppError {
	return &AppError{Err: ErrCascade, Message: fmt.Sprintf("cascade step %q failed: %v", step, cause)}
}

func Timeout(operation string) *AppError {
	return &AppError{Err: ErrTimeout, Message: fmt.Sprintf("%s timed out", operation)}
}
