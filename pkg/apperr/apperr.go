// Package apperr defines the error kinds handlers translate into HTTP statuses.
package apperr

import (
	"errors"
	"strings"
)

// Kinds. Compare with errors.Is.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

// Error is a classified error carrying a client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works through wrapping.
func (e *Error) Unwrap() error { return e.Kind }

// BadRequest returns an ErrBadRequest error with msg.
func BadRequest(msg string) error { return &Error{Kind: ErrBadRequest, Message: msg} }

// NotFound returns an ErrNotFound error with msg.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Forbidden returns an ErrForbidden error with msg.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// Conflict returns an ErrConflict error with msg.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// MissingFields returns a BadRequest listing the missing fields in order.
func MissingFields(fields ...string) error {
	return BadRequest("missing required fields: " + strings.Join(fields, ", "))
}

// Message returns the client-facing message of err, or "" if err is not classified.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}
