package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// The email is normalized before lookup.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's profile (email and full name).
	// Password and refresh token are changed through their dedicated methods.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the stored password hash and clears the
	// refresh token slot in the same statement.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// SetRefreshTokenHash overwrites the user's single refresh token slot.
	// A nil hash clears the slot.
	// Returns ErrUserNotFound if the user does not exist.
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error

	// Delete removes a user and, by cascade, all of their tasks.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
