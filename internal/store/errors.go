package store

import (
	"errors"
	"fmt"
)

// Base error classes. Entity-specific errors below wrap one of these, so
// callers can match either the precise error or its class with errors.Is.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")
)

var (
	// ErrUserNotFound is reported for lookups, updates and deletes of an
	// unknown user ID or email.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound is reported when the task does not exist or belongs to
	// someone else.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrEmailExists is reported when another account already uses the email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err belongs to the not-found class.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err belongs to the duplicate class.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
