package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/service"
)

// CookieWriter sets and clears the session cookies.
type CookieWriter struct {
	secure          bool
	sameSite        http.SameSite
	domain          string
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

// NewCookieWriter creates a CookieWriter. The lifetimes become the cookies' Max-Age.
func NewCookieWriter(cfg config.CookieConfig, accessLifetime, refreshLifetime time.Duration) *CookieWriter {
	return &CookieWriter{
		secure:          cfg.Secure,
		sameSite:        parseSameSite(cfg.SameSite),
		domain:          cfg.Domain,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
	}
}

// SetTokens writes both session cookies for pair.
func (c *CookieWriter) SetTokens(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, c.cookie(shared.AccessTokenCookie, pair.AccessToken, maxAge(c.accessLifetime)))
	http.SetCookie(w, c.cookie(shared.RefreshTokenCookie, pair.RefreshToken, maxAge(c.refreshLifetime)))
}

// Clear expires both session cookies.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(shared.AccessTokenCookie, "", -1))
	http.SetCookie(w, c.cookie(shared.RefreshTokenCookie, "", -1))
}

func (c *CookieWriter) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	}
}

func maxAge(d time.Duration) int {
	return int(d / time.Second)
}

// parseSameSite maps the config value to http.SameSite, defaulting to Strict.
func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
