package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Password and profile limits.
const (
	MinPasswordLength = 12
	// bcrypt ignores input past 72 bytes
	MaxPasswordLength = 72
	MaxFullNameLength = 100
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrFullNameTooLong     = errors.New("full name must be at most 100 characters long")
)

var emailValidator = validator.New()

// User represents a registered account.
// RefreshTokenHash holds the digest of the only refresh token currently
// accepted for the user, or nil when no session is live.
type User struct {
	ID               uuid.UUID
	Email            string
	FullName         string
	Password         string // plaintext, only set transiently during registration/updates
	HashedPassword   string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewUser creates a new User with the given email, password and full name.
// The email is normalized and the full name trimmed before validation.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password, fullName string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		FullName:  strings.TrimSpace(fullName),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", ErrEmptyUserID.Error(), ErrEmptyUserID)
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if utf8.RuneCountInString(u.FullName) > MaxFullNameLength {
		return NewValidationError("fullName", ErrFullNameTooLong.Error(), ErrFullNameTooLong)
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	// Persisted users carry only the hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", ErrEmptyHashedPassword.Error(), ErrEmptyHashedPassword)
	}

	return nil
}

// HasSession reports whether a refresh token is currently stored for the user.
func (u *User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// NormalizeEmail trims, NFKC-normalizes and lower-cases an address so that
// visually identical emails map to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(email)))
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", ErrEmptyEmail.Error(), ErrEmptyEmail)
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return NewValidationError("email", ErrInvalidEmail.Error(), ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces the password length policy.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", ErrEmptyPassword.Error(), ErrEmptyPassword)
	case len(password) < MinPasswordLength:
		return NewValidationError("password", ErrPasswordTooShort.Error(), ErrPasswordTooShort)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", ErrPasswordTooLong.Error(), ErrPasswordTooLong)
	}
	return nil
}
