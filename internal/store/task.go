package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields are ignored and the
// remaining ones are combined with AND. StartFrom and StartTo are
// inclusive bounds on the task start time.
type TaskFilter struct {
	Status    *domain.TaskStatus
	Priority  *int
	StartFrom *time.Time
	StartTo   *time.Time
}

// TaskStore defines the interface for task data persistence.
//
// Every method that reads or mutates existing tasks takes the owning user's ID
// and only ever touches rows belonging to that user. A task owned by another
// user is indistinguishable from a missing one.
type TaskStore interface {
	// Create saves a new task.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a single task owned by userID.
	// Returns ErrTaskNotFound if no such task exists.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// GetForUpdate is GetByID with a row lock; it must run inside a transaction.
	GetForUpdate(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List returns the user's tasks matching filter, ordered by start time ascending.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]domain.Task, error)

	// Update persists every mutable field of task.
	// Returns ErrTaskNotFound if the task does not exist for task.UserID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and returns the deleted record.
	// Returns ErrTaskNotFound if no such task exists.
	Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteMany removes every listed task owned by userID and returns how many
	// rows were deleted. IDs owned by other users are ignored.
	DeleteMany(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
