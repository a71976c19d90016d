package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/store"
)

// Client-facing task messages.
const (
	MsgTaskNotFound      = "Task not found or does not belong to the user."
	MsgNoTasksDeleted    = "No tasks found with the provided IDs."
	MsgTaskIDsRequired   = "An array of task IDs is required for deletion."
	MsgTaskPatchRequired = "At least one field must be provided to update a task."
)

// TaskInput carries the fields of a new task. All of them are required.
type TaskInput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Priority  int
	Status    domain.TaskStatus
}

// TaskService manages a user's tasks. Every method is scoped to userID;
// tasks owned by other users behave as if they did not exist.
//
// Every error it returns is an *Error.
type TaskService interface {
	// Create validates input and stores a new task for userID.
	Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error)

	// List returns the tasks matching every set filter field, ordered by start time.
	List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error)

	// Update applies the supplied fields of patch and re-validates the result.
	Update(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes one task and returns it.
	Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteMany removes the listed tasks and returns how many were deleted.
	// It fails with NotFound when nothing matched.
	DeleteMany(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int64, error)
}

// taskService implements TaskService.
type taskService struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewTaskService creates a TaskService. db is used to run partial updates
// in a transaction. If logger is nil, the default logger is used.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
		timeFunc:  time.Now,
	}
}

// Create implements TaskService.
func (s *taskService) Create(ctx context.Context, userID uuid.UUID, input TaskInput) (*domain.Task, error) {
	const op = "create_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, input.Title, input.StartTime, input.EndTime, input.Priority, input.Status)
	if err != nil {
		return nil, BadRequest(op, validationMessage(err), err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, s.storeError(ctx, op, err)
	}

	log.Info("task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	return task, nil
}

// List implements TaskService.
func (s *taskService) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]domain.Task, error) {
	const op = "list_tasks"

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, BadRequest(op, domain.ErrInvalidTaskStatus.Error(), domain.ErrInvalidTaskStatus)
	}
	if filter.Priority != nil {
		if err := domain.ValidatePriority(*filter.Priority); err != nil {
			return nil, BadRequest(op, validationMessage(err), err)
		}
	}

	tasks, err := s.taskStore.List(ctx, userID, filter)
	if err != nil {
		return nil, s.storeError(ctx, op, err)
	}
	return tasks, nil
}

// Update implements TaskService.
func (s *taskService) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	const op = "update_task"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return nil, BadRequest(op, MsgTaskPatchRequired, domain.ErrEmptyTaskPatch)
	}

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetForUpdate(ctx, userID, taskID)
		if err != nil {
			return err
		}

		task.Apply(patch, s.timeFunc())
		if err := task.Validate(); err != nil {
			return err
		}

		if err := txStore.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, s.storeError(ctx, op, err)
	}

	log.Info("task updated",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	return updated, nil
}

// Delete implements TaskService.
func (s *taskService) Delete(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	const op = "delete_task"

	task, err := s.taskStore.Delete(ctx, userID, taskID)
	if err != nil {
		return nil, s.storeError(ctx, op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	return task, nil
}

// DeleteMany implements TaskService.
func (s *taskService) DeleteMany(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int64, error) {
	const op = "delete_tasks"

	if len(taskIDs) == 0 {
		return 0, BadRequest(op, MsgTaskIDsRequired, domain.ErrValidation)
	}

	n, err := s.taskStore.DeleteMany(ctx, userID, dedupeIDs(taskIDs))
	if err != nil {
		return 0, s.storeError(ctx, op, err)
	}
	if n == 0 {
		return 0, NotFound(op, MsgNoTasksDeleted, store.ErrTaskNotFound)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("tasks deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("count", n))
	return n, nil
}

func (s *taskService) storeError(ctx context.Context, op string, err error) *Error {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return NotFound(op, MsgTaskNotFound, err)
	case errors.Is(err, domain.ErrValidation):
		return BadRequest(op, validationMessage(err), err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return Internal(op, err)
}

// validationMessage returns the message of the first domain.ValidationError in
// err's chain, falling back to err's text.
func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
