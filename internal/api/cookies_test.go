package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/service"
)

func TestCookieWriter(t *testing.T) {
	t.Parallel()

	cw := NewCookieWriter(config.CookieConfig{Secure: false, SameSite: "lax", Domain: "example.com"},
		10*time.Minute, 2*time.Hour)

	rec := httptest.NewRecorder()
	cw.SetTokens(rec, &service.TokenPair{AccessToken: "a", RefreshToken: "r"})

	access := findCookie(rec, shared.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "a", access.Value)
	assert.Equal(t, 600, access.MaxAge)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, "example.com", access.Domain)

	refresh := findCookie(rec, shared.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, 7200, refresh.MaxAge)

	rec = httptest.NewRecorder()
	cw.Clear(rec)
	assert.Len(t, rec.Result().Cookies(), 2)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestParseSameSite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.SameSiteStrictMode, parseSameSite("strict"))
	assert.Equal(t, http.SameSiteStrictMode, parseSameSite(""))
	assert.Equal(t, http.SameSiteLaxMode, parseSameSite("Lax"))
	assert.Equal(t, http.SameSiteNoneMode, parseSameSite("none"))
}
