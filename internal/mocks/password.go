package mocks

import (
	"errors"

	"github.com/taskr/taskr-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier.
// By default it "hashes" by prefixing "hashed:" so Compare can check
// plaintext without bcrypt's cost.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCallCount and CompareCallCount track invocations for verification
	HashCallCount    int
	CompareCallCount int
}

const mockHashPrefix = "hashed:"

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockHashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != mockHashPrefix+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

// MockHash returns what MockPasswordHasher.Hash produces for password.
func MockHash(password string) string {
	return mockHashPrefix + password
}

// ErrMockHashFailure is a canned hashing failure for tests.
var ErrMockHashFailure = errors.New("mock hash failure")
