package common

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., email already taken
	ErrInternalServer = errors.New("internal server error")
)

// APIError pairs a taxonomy sentinel with a message that is safe to
// return to the caller.
type APIError struct {
	Kind    error
	Message string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Kind }

func BadRequest(message string) error {
	return &APIError{Kind: ErrBadRequest, Message: message}
}

func Unauthorized(message string) error {
	return &APIError{Kind: ErrUnauthorized, Message: message}
}

func NotFound(message string) error {
	return &APIError{Kind: ErrNotFound, Message: message}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	// A conflicting write is reported the same way as a failed
	// pre-check, so both surface as a bad request.
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrConflict) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MessageFromError returns the caller-safe message for err. Unexpected
// failures collapse to a generic description so raw store errors never
// reach the client.
func MessageFromError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Resource not found."
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized."
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrConflict):
		return "Bad request."
	default:
		return "Internal server error."
	}
}
