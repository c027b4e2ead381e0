package common

import (
	"fmt"
	"net/http"
)

// APIError is an error that knows which HTTP status it maps to. Services
// return it for every failure the client is expected to see; anything else
// reaching the HTTP boundary becomes a generic 500.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError builds an APIError with an optional cause that is logged but
// never sent to the client.
func NewAPIError(status int, message string, cause error) *APIError {
	return &APIError{StatusCode: status, Message: message, Err: cause}
}

func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message, nil)
}

func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message, nil)
}

func Internal(message string, cause error) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, cause)
}
