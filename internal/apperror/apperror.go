// Package apperror defines the application's error taxonomy.
//
// Services return these errors; handlers map them to a response (a form
// re-render, a redirect, or the generic error page). Raw driver errors never
// cross the handler boundary; they are wrapped here or logged and replaced.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("duplicate username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AppError carries a sentinel plus a human-readable message that is safe to
// show to the user (it never contains query text or driver detail).
type AppError struct {
	Err     error  // sentinel from the list above
	Message string // safe, human-readable message
	Field   string // optional: form field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateUsername is returned whether the duplicate was caught by the
// advisory pre-insert lookup or by the storage-level UNIQUE constraint.
func DuplicateUsername() *AppError {
	return &AppError{
		Err:     ErrDuplicateUsername,
		Message: "Username already exists.",
		Field:   "username",
	}
}

// InvalidCredentials deliberately carries the same message for an unknown
// username and a wrong password, so responses cannot be used to enumerate
// registered usernames.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials.",
	}
}

// StorageUnavailable wraps a storage failure. The message shown to the user
// is generic; the underlying error stays reachable via Unwrap for logging.
func StorageUnavailable(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorageUnavailable, err),
		Message: "Something went wrong. Please try again.",
	}
}
