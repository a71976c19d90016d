package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
// Every route requires an authenticated user.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, service.TaskInput{
		Title:     req.Title,
		StartTime: req.StartTime.Time,
		EndTime:   req.EndTime.Time,
		Priority:  req.Priority,
		Status:    domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.Respond(w, r, http.StatusCreated, taskToResponse(task), "Task created successfully")
}

// ListTasks handles GET /tasks with optional status, priority, startDate and
// endDate query filters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.List(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.Respond(w, r, http.StatusOK, tasksToResponse(tasks), "Tasks retrieved successfully")
}

// UpdateTask handles PATCH /tasks/{taskId}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, taskID, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.Respond(w, r, http.StatusOK, taskToResponse(task), "Task updated successfully")
}

// DeleteTask handles DELETE /tasks/{taskId}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.Respond(w, r, http.StatusOK, taskToResponse(task), "Task deleted successfully.")
}

// DeleteTasks handles DELETE /tasks with a {"taskIds": [...]} body.
func (h *TaskHandler) DeleteTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req DeleteTasksRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	n, err := h.tasks.DeleteMany(r.Context(), userID, req.TaskIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete tasks")
		return
	}

	shared.Respond(w, r, http.StatusOK, DeleteTasksResponse{DeletedCount: n},
		fmt.Sprintf("%d task(s) deleted successfully.", n))
}
