package api

import (
	"log/slog"
	"net/http"

	"github.com/taskr/taskr-api/internal/api/shared"
	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/redact"
	"github.com/taskr/taskr-api/internal/service"
)

// AuthHandler handles user and session requests.
type AuthHandler struct {
	sessions service.SessionService
	cookies  *CookieWriter
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(sessions service.SessionService, cookies *CookieWriter, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		sessions: sessions,
		cookies:  cookies,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// IsActive handles GET /users/isActive.
func (h *AuthHandler) IsActive(w http.ResponseWriter, r *http.Request) {
	shared.Respond(w, r, http.StatusOK, nil, "Server is Running")
}

// Register handles POST /users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	shared.Respond(w, r, http.StatusCreated, userToResponse(user), "User registered successfully")
}

// Login handles POST /users/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to log in")
		return
	}

	h.cookies.SetTokens(w, pair)
	shared.Respond(w, r, http.StatusOK, LoginResponse{
		User:         userToResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// RefreshToken handles POST /users/refreshToken. The token is read from the
// refreshToken cookie, falling back to the JSON body.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	token := ""
	if c, err := r.Cookie(shared.RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var req RefreshTokenRequest
		if err := shared.DecodeJSON(r, &req); err != nil {
			log.Debug("invalid refresh request body", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		token = req.RefreshToken
	}

	_, pair, err := h.sessions.Refresh(r.Context(), token)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	h.cookies.SetTokens(w, pair)
	shared.Respond(w, r, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// Logout handles POST /users/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	if err := h.sessions.Logout(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	h.cookies.Clear(w)
	shared.Respond(w, r, http.StatusOK, nil, "User logged out")
}

// ChangePassword handles PATCH /users/changePassword.
// The session is ended, so the cookies are cleared on success.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.sessions.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to change password")
		return
	}

	h.cookies.Clear(w)
	shared.Respond(w, r, http.StatusOK, nil, "Password changed successfully")
}

// GetCurrentUser handles GET /users/getCurrentUser.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	user, err := h.sessions.CurrentUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch user")
		return
	}

	shared.Respond(w, r, http.StatusOK, userToResponse(user), "Current user fetched successfully")
}

// UpdateCurrentUser handles PATCH /users/updateCurrentUser.
func (h *AuthHandler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.sessions.UpdateAccount(r.Context(), userID, req.Email, req.FullName)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update account")
		return
	}

	shared.Respond(w, r, http.StatusOK, userToResponse(user), "Account details updated successfully")
}

// DeleteAccount handles DELETE /users/deleteAccount.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	if err := h.sessions.DeleteAccount(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	h.cookies.Clear(w)
	shared.Respond(w, r, http.StatusOK, nil, "Account deleted successfully")
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response on failure.
func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	return decodeAndValidate(w, r, req, logger.FromContextOrDefault(r.Context(), h.logger))
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
