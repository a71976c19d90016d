package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/store"
)

const dateOnlyLayout = "2006-01-02"

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// requireUserID returns the authenticated user's ID or writes a 401 response.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized request")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserIDAndPathUUID extracts both the user ID from context and a UUID
// from the path. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// parseTaskFilter reads status, priority, startDate and endDate from the
// query string. Values are only checked for syntax here; the task service
// validates their domain.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := domain.TaskStatus(strings.ToLower(raw))
		filter.Status = &status
	}

	if raw := strings.TrimSpace(q.Get("priority")); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"priority", "priority must be an integer", domain.ErrInvalidFormat)
		}
		filter.Priority = &p
	}

	if raw := strings.TrimSpace(q.Get("startDate")); raw != "" {
		t, err := parseDateParam(raw, false)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"startDate", "startDate must be an RFC 3339 timestamp or YYYY-MM-DD date", domain.ErrInvalidFormat)
		}
		filter.StartFrom = &t
	}

	if raw := strings.TrimSpace(q.Get("endDate")); raw != "" {
		t, err := parseDateParam(raw, true)
		if err != nil {
			return store.TaskFilter{}, domain.NewValidationError(
				"endDate", "endDate must be an RFC 3339 timestamp or YYYY-MM-DD date", domain.ErrInvalidFormat)
		}
		filter.StartTo = &t
	}

	return filter, nil
}

// parseDateParam accepts an ISO 8601 timestamp or a YYYY-MM-DD date in UTC.
// With endOfDay set, a bare date covers the whole day.
func parseDateParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := parseTimestamp(raw); err == nil {
		return t, nil
	}

	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
