package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/store"
)

// MockUserStore is an in-memory store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, user *domain.User) error
	GetByEmailFn          func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFn              func(ctx context.Context, user *domain.User) error
	UpdatePasswordFn      func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	SetRefreshTokenHashFn func(ctx context.Context, id uuid.UUID, hash *string) error
	DeleteFn              func(ctx context.Context, id uuid.UUID) error

	// OnDelete is called after a user is removed; MockTaskStore.DeleteAllForUser
	// plugs in here to emulate the cascade.
	OnDelete func(id uuid.UUID)

	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

// NewMockUserStore creates a new empty mock store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[uuid.UUID]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.RefreshTokenHash != nil {
		h := *u.RefreshTokenHash
		c.RefreshTokenHash = &h
	}
	return &c
}

func (m *MockUserStore) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range m.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return domain.NewValidationError("password", domain.ErrEmptyHashedPassword.Error(), domain.ErrEmptyHashedPassword)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(user.Email, uuid.Nil) {
		return store.ErrEmailExists
	}

	user.Password = ""
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	email = domain.NormalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore. Only email and full name are written.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	user.Email = domain.NormalizeEmail(user.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}

	existing.Email = user.Email
	existing.FullName = user.FullName
	existing.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

// UpdatePassword implements store.UserStore. The refresh slot is cleared too.
func (m *MockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if m.UpdatePasswordFn != nil {
		return m.UpdatePasswordFn(ctx, id, hashedPassword)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	u.RefreshTokenHash = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetRefreshTokenHash implements store.UserStore.
func (m *MockUserStore) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	if m.SetRefreshTokenHashFn != nil {
		return m.SetRefreshTokenHashFn(ctx, id, hash)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	if hash == nil {
		u.RefreshTokenHash = nil
	} else {
		h := *hash
		u.RefreshTokenHash = &h
	}
	return nil
}

// Delete implements store.UserStore.
func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	_, ok := m.users[id]
	delete(m.users, id)
	m.mu.Unlock()

	if !ok {
		return store.ErrUserNotFound
	}
	if m.OnDelete != nil {
		m.OnDelete(id)
	}
	return nil
}

// WithTx implements store.UserStore. The mock has no transactions and returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// Put stores a copy of user without validation, for seeding test data.
func (m *MockUserStore) Put(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = copyUser(user)
}

// Len returns the number of stored users.
func (m *MockUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
