package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service failure. Each kind maps to exactly one HTTP status.
type Kind int

// Failure kinds. KindInternal is the zero-risk default for anything unclassified.
const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

// String returns the kind's name as used in logs.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode returns the HTTP status code for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error type returned by SessionService and TaskService.
//
// Message is safe to show to clients. Err carries the underlying cause for
// logging and errors.Is/As checks and must never be shown to clients.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// BadRequest reports invalid caller input.
func BadRequest(op, message string, err error) *Error {
	return newError(KindBadRequest, op, message, err)
}

// Unauthorized reports a missing, invalid, expired or reused credential.
func Unauthorized(op, message string, err error) *Error {
	return newError(KindUnauthorized, op, message, err)
}

// NotFound reports a missing user or task.
func NotFound(op, message string, err error) *Error {
	return newError(KindNotFound, op, message, err)
}

// Conflict reports a uniqueness violation.
func Conflict(op, message string, err error) *Error {
	return newError(KindConflict, op, message, err)
}

// Internal reports an unexpected failure. The message is always generic.
func Internal(op string, err error) *Error {
	return newError(KindInternal, op, "An unexpected error occurred", err)
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of the first *Error in err's chain.
func MessageOf(err error) (string, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Message, true
	}
	return "", false
}
