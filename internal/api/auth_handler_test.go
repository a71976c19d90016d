package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/service"
)

func TestIsActive(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/users/isActive", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Server is Running", env.Message)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		user := s.register(t)
		assert.Equal(t, testEmail, user.Email)
		assert.Equal(t, "Alice", user.FullName)
		assert.Equal(t, 1, s.users.Len())
	})

	t.Run("response never carries the password hash", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/register", RegisterRequest{
			Email: testEmail, Password: testPassword,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hashed:")
		assert.NotContains(t, rec.Body.String(), testPassword)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.register(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/register", RegisterRequest{
			Email: "ALICE@example.com", Password: testPassword,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, service.MsgEmailExists, decodeEnvelope(t, rec).Message)
	})

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"empty body", nil, "Invalid request format"},
		{"malformed json", `{"email":`, "Invalid request format"},
		{"unknown field", `{"email":"a@b.co","password":"long-enough-pass","admin":true}`, "Invalid request format"},
		{"missing email", RegisterRequest{Password: testPassword}, "Invalid email: required field"},
		{"bad email", RegisterRequest{Email: "nope", Password: testPassword}, "Invalid email: invalid email format"},
		{"short password", RegisterRequest{Email: testEmail, Password: "short"}, "Invalid password: too short or too small"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t)

			rec := s.do(t, http.MethodPost, "/api/v1/users/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tc.message, env.Message)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.TraceID)
			assert.Zero(t, s.users.Len())
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("issues tokens in body and cookies", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.register(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: testEmail, Password: testPassword})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		decodeData(t, rec, &resp)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, testEmail, resp.User.Email)

		access := findCookie(rec, shared.AccessTokenCookie)
		require.NotNil(t, access)
		assert.Equal(t, resp.AccessToken, access.Value)
		assert.True(t, access.HttpOnly)
		assert.True(t, access.Secure)
		assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
		assert.Equal(t, "/", access.Path)
		assert.Equal(t, 15*60, access.MaxAge)

		refresh := findCookie(rec, shared.RefreshTokenCookie)
		require.NotNil(t, refresh)
		assert.Equal(t, resp.RefreshToken, refresh.Value)
		assert.Equal(t, 60*60, refresh.MaxAge)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: testEmail, Password: testPassword})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgUserNotFound, decodeEnvelope(t, rec).Message)
		assert.Nil(t, findCookie(rec, shared.AccessTokenCookie))
	})

	t.Run("malformed email is an unknown user", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: "not-an-email", Password: testPassword})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.MsgUserNotFound, decodeEnvelope(t, rec).Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		s.register(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: testEmail, Password: "wrong-password-123"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.MsgInvalidCredentials, decodeEnvelope(t, rec).Message)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("rotates via cookie", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		first := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/refreshToken", nil,
			withCookie(shared.RefreshTokenCookie, first.RefreshToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var tokens TokenResponse
		decodeData(t, rec, &tokens)
		assert.NotEqual(t, first.RefreshToken, tokens.RefreshToken)
		assert.Equal(t, tokens.RefreshToken, findCookie(rec, shared.RefreshTokenCookie).Value)

		// the rotated-out token is now rejected
		rec = s.do(t, http.MethodPost, "/api/v1/users/refreshToken", nil,
			withCookie(shared.RefreshTokenCookie, first.RefreshToken))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.MsgRefreshTokenExpired, decodeEnvelope(t, rec).Message)
	})

	t.Run("accepts token from body", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		first := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/refreshToken",
			RefreshTokenRequest{RefreshToken: first.RefreshToken})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/refreshToken", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.MsgRefreshTokenRequired, decodeEnvelope(t, rec).Message)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		first := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/refreshToken", nil,
			withCookie(shared.RefreshTokenCookie, first.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.MsgInvalidRefreshToken, decodeEnvelope(t, rec).Message)
	})

	t.Run("second login invalidates the first refresh token", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		first := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/login", LoginRequest{Email: testEmail, Password: testPassword})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/users/refreshToken",
			RefreshTokenRequest{RefreshToken: first.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.MsgRefreshTokenExpired, decodeEnvelope(t, rec).Message)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears cookies and refresh slot", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/logout", nil, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		for _, name := range []string{shared.AccessTokenCookie, shared.RefreshTokenCookie} {
			c := findCookie(rec, name)
			require.NotNil(t, c, name)
			assert.Empty(t, c.Value)
			assert.Less(t, c.MaxAge, 0)
		}

		user, err := s.users.GetByEmail(context.Background(), testEmail)
		require.NoError(t, err)
		assert.False(t, user.HasSession())

		rec = s.do(t, http.MethodPost, "/api/v1/users/refreshToken",
			RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		for range 2 {
			rec := s.do(t, http.MethodPost, "/api/v1/users/logout", nil,
				withCookie(shared.AccessTokenCookie, tokens.AccessToken))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)

		rec := s.do(t, http.MethodPost, "/api/v1/users/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized request", decodeEnvelope(t, rec).Message)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("changes password and ends session", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPatch, "/api/v1/users/changePassword", ChangePasswordRequest{
			OldPassword: testPassword,
			NewPassword: "brand-new-password-42",
		}, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		c := findCookie(rec, shared.RefreshTokenCookie)
		require.NotNil(t, c)
		assert.Less(t, c.MaxAge, 0)

		rec = s.do(t, http.MethodPost, "/api/v1/users/refreshToken",
			RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/users/login",
			LoginRequest{Email: testEmail, Password: "brand-new-password-42"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong old password", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPatch, "/api/v1/users/changePassword", ChangePasswordRequest{
			OldPassword: "not-the-password",
			NewPassword: "brand-new-password-42",
		}, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgInvalidOldPassword, decodeEnvelope(t, rec).Message)
	})
}

func TestAccountEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("get current user", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodGet, "/api/v1/users/getCurrentUser", nil, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var user UserResponse
		decodeData(t, rec, &user)
		assert.Equal(t, tokens.User.ID, user.ID)
	})

	t.Run("update current user", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPatch, "/api/v1/users/updateCurrentUser",
			map[string]string{"fullName": "Alice Liddell"}, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var user UserResponse
		decodeData(t, rec, &user)
		assert.Equal(t, "Alice Liddell", user.FullName)
		assert.Equal(t, testEmail, user.Email)
	})

	t.Run("update with no fields", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPatch, "/api/v1/users/updateCurrentUser", `{}`, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, service.MsgAccountFieldsRequired, decodeEnvelope(t, rec).Message)
	})

	t.Run("delete account removes tasks", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t)
		tokens := s.login(t)

		rec := s.do(t, http.MethodPost, "/api/v1/tasks", validTaskBody(), withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = s.do(t, http.MethodDelete, "/api/v1/users/deleteAccount", nil, withBearer(tokens.AccessToken))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, s.users.Len())
		assert.Zero(t, s.tasks.Len())

		rec = s.do(t, http.MethodGet, "/api/v1/users/getCurrentUser", nil, withBearer(tokens.AccessToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
