// Package apperr defines the application-layer error that the HTTP adapter renders.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStoreUnavailable marks a failure of a backing store rather than of the request.
var ErrStoreUnavailable = errors.New("store unavailable")

// StoreUnavailable wraps err so it matches ErrStoreUnavailable.
func StoreUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Error is an application-layer error that can be mapped to an HTTP response.
//
// Errors carries the full list of violated invariants for 422 responses; other statuses
// render Message alone.
type Error struct {
	Status  int
	Code    string
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func NotFound(code, message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: message}
}

func BadRequest(code, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

func Unprocessable(messages ...string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Errors:  append([]string(nil), messages...),
	}
}
