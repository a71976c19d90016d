package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore for testing.
// Like the Postgres store, a task owned by someone else is reported as missing.
type MockTaskStore struct {
	CreateFn     func(ctx context.Context, task *domain.Task) error
	GetByIDFn    func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListFn       func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error)
	UpdateFn     func(ctx context.Context, task *domain.Task) error
	DeleteFn     func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	DeleteManyFn func(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int64, error)

	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

// NewMockTaskStore creates a new empty mock store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[uuid.UUID]domain.Task),
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// GetForUpdate implements store.TaskStore; it behaves like GetByID.
func (m *MockTaskStore) GetForUpdate(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return m.GetByID(ctx, userID, taskID)
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Task, 0)
	for _, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.StartFrom != nil && t.StartTime.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartTo != nil && t.StartTime.After(*filter.StartTo) {
			continue
		}
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return &t, nil
}

// DeleteMany implements store.TaskStore.
func (m *MockTaskStore) DeleteMany(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int64, error) {
	if m.DeleteManyFn != nil {
		return m.DeleteManyFn(ctx, userID, taskIDs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, id := range taskIDs {
		if t, ok := m.tasks[id]; ok && t.UserID == userID {
			delete(m.tasks, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements store.TaskStore. The mock has no transactions and returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// DeleteAllForUser removes every task owned by userID.
// Assign it to MockUserStore.OnDelete to emulate ON DELETE CASCADE.
func (m *MockTaskStore) DeleteAllForUser(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		if t.UserID == userID {
			delete(m.tasks, id)
		}
	}
}

// Len returns the number of stored tasks across all users.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
