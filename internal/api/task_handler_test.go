package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/service"
)

var taskStart = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func validTaskBody() CreateTaskRequest {
	return CreateTaskRequest{
		Title:     "Write report",
		StartTime: timestamp{taskStart},
		EndTime:   timestamp{taskStart.Add(2 * time.Hour)},
		Priority:  3,
		Status:    "pending",
	}
}

// createTask creates a task through the API and returns it.
func (s *testServer) createTask(t *testing.T, token string, body CreateTaskRequest) TaskResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/tasks", body, withBearer(token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task TaskResponse
	decodeData(t, rec, &task)
	return task
}

// secondUser registers and logs in another account, returning its access token.
func (s *testServer) secondUser(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/users/register",
		RegisterRequest{Email: "bob@example.com", Password: testPassword})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/users/login",
		LoginRequest{Email: "bob@example.com", Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeData(t, rec, &resp)
	return resp.AccessToken
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("creates task", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/tasks", validTaskBody(), withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Task created successfully", env.Message)
		assert.Equal(t, http.StatusCreated, env.StatusCode)

		var task TaskResponse
		decodeData(t, rec, &task)
		assert.Equal(t, tokens.User.ID, task.UserID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.True(t, taskStart.Equal(task.StartTime))
	})

	tests := []struct {
		name    string
		mutate  func(*CreateTaskRequest)
		message string
	}{
		{"missing title", func(r *CreateTaskRequest) { r.Title = "" }, "Invalid title: required field"},
		{"priority too high", func(r *CreateTaskRequest) { r.Priority = 6 }, "Invalid priority: too long or too large"},
		{"bad status", func(r *CreateTaskRequest) { r.Status = "done" }, "Invalid status: invalid value"},
		{"missing start", func(r *CreateTaskRequest) { r.StartTime = timestamp{} }, "Invalid startTime: required field"},
		{"end before start", func(r *CreateTaskRequest) { r.EndTime = timestamp{r.StartTime.Add(-time.Hour)} }, domain.ErrInvalidTimeRange.Error()},
		{"blank title", func(r *CreateTaskRequest) { r.Title = "   " }, domain.ErrEmptyTaskTitle.Error()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t)
			tokens := s.login(t)

			body := validTaskBody()
			tc.mutate(&body)
			rec := s.do(t, http.MethodPost, "/api/v1/tasks", body, withBearer(tokens.AccessToken))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeEnvelope(t, rec).Message)
			assert.Zero(t, s.tasks.Len())
		})
	}

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/tasks", validTaskBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	tokens := s.login(t)

	early := validTaskBody()
	early.Title = "early"
	early.Priority = 1

	late := validTaskBody()
	late.Title = "late"
	late.StartTime = timestamp{taskStart.Add(48 * time.Hour)}
	late.EndTime = timestamp{late.StartTime.Add(time.Hour)}
	late.Status = "finished"

	// created out of order to check sorting
	s.createTask(t, tokens.AccessToken, late)
	s.createTask(t, tokens.AccessToken, early)

	other := s.secondUser(t)
	s.createTask(t, other, validTaskBody())

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{"all sorted by start", "", []string{"early", "late"}},
		{"status", "?status=finished", []string{"late"}},
		{"priority", "?priority=1", []string{"early"}},
		{"start date inclusive", "?startDate=2024-03-12", []string{"late"}},
		{"end date covers whole day", "?endDate=2024-03-10", []string{"early"}},
		{"rfc3339 range", "?startDate=2024-03-10T09:00:00Z&endDate=2024-03-10T09:00:00Z", []string{"early"}},
		{"combined filters", "?status=pending&priority=3", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/tasks"+tc.query, nil, withBearer(tokens.AccessToken))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "Tasks retrieved successfully", decodeEnvelope(t, rec).Message)

			var tasks []TaskResponse
			decodeData(t, rec, &tasks)
			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
				assert.Equal(t, tokens.User.ID, task.UserID)
			}
			assert.Equal(t, tc.titles, titles)
		})
	}

	bad := []struct {
		name  string
		query string
	}{
		{"unknown status", "?status=archived"},
		{"priority not a number", "?priority=high"},
		{"priority out of range", "?priority=9"},
		{"malformed date", "?startDate=10/03/2024"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/tasks"+tc.query, nil, withBearer(tokens.AccessToken))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Success)
		})
	}
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	t.Run("applies supplied fields", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)
		task := s.createTask(t, tokens.AccessToken, validTaskBody())

		s.sql.ExpectBegin()
		s.sql.ExpectCommit()

		rec := s.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]any{"status": "finished", "priority": 5}, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Task updated successfully", decodeEnvelope(t, rec).Message)

		var updated TaskResponse
		decodeData(t, rec, &updated)
		assert.Equal(t, domain.TaskStatusFinished, updated.Status)
		assert.Equal(t, 5, updated.Priority)
		assert.Equal(t, task.Title, updated.Title)
		require.NoError(t, s.sql.ExpectationsWereMet())
	})

	t.Run("invalid result is rejected", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)
		task := s.createTask(t, tokens.AccessToken, validTaskBody())

		s.sql.ExpectBegin()
		s.sql.ExpectRollback()

		rec := s.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]any{"endTime": taskStart.Add(-time.Hour)}, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrInvalidTimeRange.Error(), decodeEnvelope(t, rec).Message)
		require.NoError(t, s.sql.ExpectationsWereMet())
	})

	t.Run("other user's task is not found", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)
		task := s.createTask(t, tokens.AccessToken, validTaskBody())
		other := s.secondUser(t)

		s.sql.ExpectBegin()
		s.sql.ExpectRollback()

		rec := s.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]any{"title": "stolen"}, withBearer(other))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgTaskNotFound, decodeEnvelope(t, rec).Message)
	})

	t.Run("empty patch", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)
		task := s.createTask(t, tokens.AccessToken, validTaskBody())

		rec := s.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(), `{}`, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgTaskPatchRequired, decodeEnvelope(t, rec).Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPatch, "/api/v1/tasks/not-a-uuid", map[string]any{"priority": 2},
			withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "taskId: has invalid format", decodeEnvelope(t, rec).Message)
	})
}

func TestTaskLifecycleWithMinutePrecisionTimes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	tokens := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/v1/tasks",
		`{"title":"Write report","startTime":"2024-01-01T09:00Z","endTime":"2024-01-01T10:00Z","priority":3,"status":"pending"}`,
		withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task TaskResponse
	decodeData(t, rec, &task)
	assert.True(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Equal(task.StartTime))
	assert.True(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Equal(task.EndTime))

	s.sql.ExpectBegin()
	s.sql.ExpectCommit()
	rec = s.do(t, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(), `{"status":"finished"}`,
		withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated TaskResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, domain.TaskStatusFinished, updated.Status)
	require.NoError(t, s.sql.ExpectationsWereMet())

	rec = s.do(t, http.MethodGet, "/api/v1/tasks?startDate=2024-01-01T08:00Z&endDate=2024-01-01T09:00Z", nil,
		withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var listed []TaskResponse
	decodeData(t, rec, &listed)
	assert.Len(t, listed, 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil, withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/tasks", nil, withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	decodeData(t, rec, &listed)
	assert.Empty(t, listed)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	tokens := s.login(t)
	task := s.createTask(t, tokens.AccessToken, validTaskBody())
	other := s.secondUser(t)

	rec := s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil, withBearer(other))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, s.tasks.Len())

	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil, withBearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully.", decodeEnvelope(t, rec).Message)

	var deleted TaskResponse
	decodeData(t, rec, &deleted)
	assert.Equal(t, task.ID, deleted.ID)

	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil, withBearer(tokens.AccessToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTasks(t *testing.T) {
	t.Parallel()

	t.Run("deletes owned tasks only", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)
		a := s.createTask(t, tokens.AccessToken, validTaskBody())
		b := s.createTask(t, tokens.AccessToken, validTaskBody())
		other := s.secondUser(t)
		foreign := s.createTask(t, other, validTaskBody())

		rec := s.do(t, http.MethodDelete, "/api/v1/tasks", DeleteTasksRequest{
			TaskIDs: []uuid.UUID{a.ID, b.ID, foreign.ID, a.ID},
		}, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "2 task(s) deleted successfully.", decodeEnvelope(t, rec).Message)

		var resp DeleteTasksResponse
		decodeData(t, rec, &resp)
		assert.EqualValues(t, 2, resp.DeletedCount)
		assert.Equal(t, 1, s.tasks.Len())
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodDelete, "/api/v1/tasks", `{"taskIds":[]}`, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgTaskIDsRequired, decodeEnvelope(t, rec).Message)
	})

	t.Run("nothing matched", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodDelete, "/api/v1/tasks", DeleteTasksRequest{
			TaskIDs: []uuid.UUID{uuid.New()},
		}, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgNoTasksDeleted, decodeEnvelope(t, rec).Message)
	})
}
