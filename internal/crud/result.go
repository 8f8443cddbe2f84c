package crud

import (
	"errors"
	"net/http"

	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

// Result is the two-shape envelope every mutation returns: success with data
// and an optional message, or failure with a user-safe error and machine code.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK builds a success result.
func OK[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: &data, Message: message}
}

// Fail builds a failure result from a taxonomy error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Success: false, Error: shared.UserSafeMessage(err), Code: shared.ErrorCode(err)}
}

// HTTPStatus maps the result onto a response status code.
func (r Result[T]) HTTPStatus() int {
	if r.Success {
		return http.StatusOK
	}
	switch r.Code {
	case "unauthorized":
		return http.StatusUnauthorized
	case "forbidden":
		return http.StatusForbidden
	case "validation_failed":
		return http.StatusBadRequest
	case "duplicate", "referential_conflict":
		return http.StatusConflict
	case "not_found":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether the error is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
