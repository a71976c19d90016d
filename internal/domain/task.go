package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the completion state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusFinished TaskStatus = "finished"
)

// Task field limits.
const (
	MinPriority    = 1
	MaxPriority    = 5
	MaxTitleLength = 200
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID   = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title must be at most 200 characters long")
	ErrMissingTaskTime   = errors.New("task start and end time are required")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrInvalidPriority   = errors.New("priority must be between 1 and 5")
	ErrInvalidTaskStatus = errors.New("status must be one of: pending, finished")
	ErrEmptyTaskPatch    = errors.New("at least one field must be provided")
)

// Task is a time-boxed unit of work owned by exactly one user.
type Task struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Priority  int
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask creates a validated Task for userID.
// Times are converted to UTC and the title is trimmed.
func NewTask(
	userID uuid.UUID,
	title string,
	startTime, endTime time.Time,
	priority int,
	status TaskStatus,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		StartTime: startTime.UTC(),
		EndTime:   endTime.UTC(),
		Priority:  priority,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// The first failing rule is reported.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", ErrEmptyTaskID.Error(), ErrEmptyTaskID)
	}

	if t.UserID == uuid.Nil {
		return NewValidationError("userId", ErrEmptyTaskUserID.Error(), ErrEmptyTaskUserID)
	}

	if t.Title == "" {
		return NewValidationError("title", ErrEmptyTaskTitle.Error(), ErrEmptyTaskTitle)
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", ErrTaskTitleTooLong.Error(), ErrTaskTitleTooLong)
	}

	if t.StartTime.IsZero() || t.EndTime.IsZero() {
		return NewValidationError("startTime", ErrMissingTaskTime.Error(), ErrMissingTaskTime)
	}

	if !t.StartTime.Before(t.EndTime) {
		return NewValidationError("endTime", ErrInvalidTimeRange.Error(), ErrInvalidTimeRange)
	}

	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}

	if !t.Status.Valid() {
		return NewValidationError("status", ErrInvalidTaskStatus.Error(), ErrInvalidTaskStatus)
	}

	return nil
}

// Apply copies every supplied field of p onto the task and stamps UpdatedAt.
// The result is not validated; callers must call Validate afterwards.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.StartTime != nil {
		t.StartTime = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		t.EndTime = p.EndTime.UTC()
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = now.UTC()
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusFinished:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", NewValidationError(
			"status",
			fmt.Sprintf("%s, got %q", ErrInvalidTaskStatus.Error(), raw),
			ErrInvalidTaskStatus,
		)
	}
	return status, nil
}

// ValidatePriority checks that p is within [MinPriority, MaxPriority].
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return NewValidationError("priority", ErrInvalidPriority.Error(), ErrInvalidPriority)
	}
	return nil
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Priority  *int
	Status    *TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.Priority == nil &&
		p.Status == nil
}
