package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/api/middleware"
	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/mocks"
	"github.com/taskr/taskr-api/internal/service"
	"github.com/taskr/taskr-api/internal/service/auth"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "correct-horse-battery"
)

// testServer wires the handlers to in-memory stores the same way the
// server does, minus the database.
type testServer struct {
	router http.Handler
	users  *mocks.MockUserStore
	tasks  *mocks.MockTaskStore
	sql    sqlmock.Sqlmock
	jwt    auth.JWTService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:                   "api-test-secret-that-is-definitely-long",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	}
	jwtSvc, err := auth.NewJWTService(authCfg)
	require.NoError(t, err)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	users.OnDelete = tasks.DeleteAllForUser
	hasher := &mocks.MockPasswordHasher{}
	log := discardLogger()

	sessions := service.NewSessionService(users, jwtSvc, hasher, hasher, log)
	cookies := NewCookieWriter(
		config.CookieConfig{Secure: true, SameSite: "strict"},
		jwtSvc.AccessTokenLifetime(),
		jwtSvc.RefreshTokenLifetime(),
	)
	authHandler := NewAuthHandler(sessions, cookies, log)
	taskHandler := NewTaskHandler(service.NewTaskService(tasks, db, log), log)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Route("/api/v1", func(r chi.Router) {
		MountRoutes(r, authHandler, taskHandler, authMiddleware.Authenticate)
	})

	return &testServer{router: r, users: users, tasks: tasks, sql: sqlMock, jwt: jwtSvc}
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(name, value string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates the test user through the API.
func (s *testServer) register(t *testing.T) UserResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/users/register", RegisterRequest{
		Email:    testEmail,
		Password: testPassword,
		FullName: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user UserResponse
	decodeData(t, rec, &user)
	return user
}

// login registers the test user and returns the issued tokens.
func (s *testServer) login(t *testing.T) LoginResponse {
	t.Helper()
	s.register(t)

	rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: testEmail, Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	decodeData(t, rec, &resp)
	return resp
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

// decodeData unmarshals the envelope's data field into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
