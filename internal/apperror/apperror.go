// Package apperror defines errors that carry the HTTP status they map to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-facing failure with a fixed status and message.
// Err, when set, is the internal cause; it is logged but never sent.
type Error struct {
	Status  int
	Message string
	Err     error
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by status and message so wrapped copies still compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

// Wrap attaches an internal cause to a sentinel
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, Err: err}
}

// Withf returns a copy of e with a formatted message
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Status: e.Status, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// BadRequest is shorthand for validation failures with a dynamic message
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Internal wraps an unexpected failure; the client only sees "Server Error"
func Internal(err error) *Error {
	return ErrInternal.Wrap(err)
}

// From extracts an *Error from err's chain. Anything else becomes ErrInternal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

var (
	ErrInternal     = New(http.StatusInternalServerError, "Server Error")
	ErrUnauthorized = New(http.StatusUnauthorized, "Not authorized to access this route")
	ErrForbidden    = New(http.StatusForbidden, "User role is not authorized to access this route")
	ErrInvalidBody  = New(http.StatusBadRequest, "Invalid request body")
	ErrInvalidID    = New(http.StatusBadRequest, "Invalid id")
	ErrUnavailable  = New(http.StatusServiceUnavailable, "Service unavailable")
)
