package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mentor-hub/student-mentor/internal/domain/shared"
)

// APIError is a terminal failure of a backend call. StatusCode carries the
// upstream HTTP status (or 500 for transport-level failures) so the fetch
// handler can mirror it to the caller.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("backend: %s", e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *APIError) Unwrap() error { return e.Err }

// Is maps status codes onto the shared error taxonomy for errors.Is().
func (e *APIError) Is(target error) bool {
	switch {
	case errors.Is(target, shared.ErrUnauthorized):
		return e.StatusCode == http.StatusUnauthorized
	case errors.Is(target, shared.ErrForbidden):
		return e.StatusCode == http.StatusForbidden
	case errors.Is(target, shared.ErrNotFound):
		return e.StatusCode == http.StatusNotFound
	case errors.Is(target, shared.ErrInvalidInput):
		return e.StatusCode == http.StatusBadRequest
	case errors.Is(target, shared.ErrConnection):
		return e.Err != nil && errors.Is(e.Err, shared.ErrConnection)
	case errors.Is(target, shared.ErrExternalService):
		return e.StatusCode >= 500
	}
	return false
}

// connectionError wraps a transport-level failure (timeout, DNS, refused
// connection) as a generic connection error with a 500 status.
func connectionError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("Connection error: %v", err),
		Err:        fmt.Errorf("%w: %v", shared.ErrConnection, err),
	}
}

// statusError maps a non-2xx backend response onto a user-facing message.
func statusError(statusCode int, body string) *APIError {
	e := &APIError{StatusCode: statusCode, Body: body}
	switch statusCode {
	case http.StatusBadRequest:
		e.Message = "Invalid student ID"
	case http.StatusNotFound:
		e.Message = "Student not found"
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Message = "Authentication failed. Check ADMIN_PASSWORD environment variable."
	default:
		e.Message = fmt.Sprintf("Error: %d - %s", statusCode, body)
	}
	return e
}
