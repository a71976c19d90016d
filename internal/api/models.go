package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
)

// RegisterRequest is the payload for POST /users/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
	FullName string `json:"fullName" validate:"omitempty,max=100"`
}

// LoginRequest is the payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the optional payload for POST /users/refreshToken.
// The refreshToken cookie takes precedence over the body.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the payload for PATCH /users/changePassword.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=12,max=72"`
}

// UpdateAccountRequest is the payload for PATCH /users/updateCurrentUser.
type UpdateAccountRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	FullName *string `json:"fullName" validate:"omitempty,max=100"`
}

// CreateTaskRequest is the payload for POST /tasks.
type CreateTaskRequest struct {
	Title     string    `json:"title"     validate:"required,max=200"`
	StartTime timestamp `json:"startTime" validate:"required"`
	EndTime   timestamp `json:"endTime"   validate:"required"`
	Priority  int       `json:"priority"  validate:"required,min=1,max=5"`
	Status    string    `json:"status"    validate:"required,oneof=pending finished"`
}

// UpdateTaskRequest is the payload for PATCH /tasks/{taskId}.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title     *string    `json:"title"     validate:"omitempty,max=200"`
	StartTime *timestamp `json:"startTime"`
	EndTime   *timestamp `json:"endTime"`
	Priority  *int       `json:"priority"  validate:"omitempty,min=1,max=5"`
	Status    *string    `json:"status"    validate:"omitempty,oneof=pending finished"`
}

// toPatch converts the request into a domain patch.
func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:     r.Title,
		StartTime: timePtr(r.StartTime),
		EndTime:   timePtr(r.EndTime),
		Priority:  r.Priority,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// DeleteTasksRequest is the payload for DELETE /tasks.
type DeleteTasksRequest struct {
	TaskIDs []uuid.UUID `json:"taskIds"`
}

// UserResponse is the public view of a user. It never carries the password
// hash or refresh token digest.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginResponse is returned by login.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// TokenResponse is returned by refreshToken.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Title     string            `json:"title"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Priority  int               `json:"priority"`
	Status    domain.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DeleteTasksResponse is returned by bulk delete.
type DeleteTasksResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Priority:  t.Priority,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskToResponse(&tasks[i]))
	}
	return out
}
