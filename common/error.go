package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError creates an APIError with status, message, and optional fields
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}

// FromStoreError maps a repository error to an APIError. Context
// cancellation becomes 408; anything else becomes a 500 carrying msg so
// driver errors never reach the client.
func FromStoreError(err error, msg string) APIError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Errf(http.StatusRequestTimeout, "request timed out")
	}

	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return Errf(http.StatusInternalServerError, "%s", msg)
}
