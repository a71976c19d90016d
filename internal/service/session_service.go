package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/domain"
	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/service/auth"
	"github.com/taskr/taskr-api/internal/store"
)

// Client-facing messages shared with the HTTP layer's tests.
const (
	MsgUserNotFound          = "User does not exist"
	MsgInvalidCredentials    = "Invalid user credentials"
	MsgRefreshTokenRequired  = "Unauthorized request"
	MsgInvalidRefreshToken   = "Invalid refresh token"
	MsgRefreshTokenExpired   = "Refresh token is expired or used"
	MsgInvalidOldPassword    = "Invalid old password"
	MsgEmailExists           = "User with this email already exists"
	MsgAccountFieldsRequired = "At least one of email or fullName is required"
)

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// SessionService drives the session lifecycle of a user:
// Anonymous -> Authenticated -> (Refreshed)* -> LoggedOut.
//
// Every error it returns is an *Error.
type SessionService interface {
	// Register creates a user with a hashed password. No session is started.
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)

	// Login checks credentials and issues a token pair. The refresh token
	// becomes the user's only valid one, replacing any earlier session.
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)

	// Refresh exchanges the user's current refresh token for a new pair.
	// A token that verifies cryptographically but is no longer the stored
	// one is rejected as expired or used.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)

	// Logout clears the refresh token slot. It is idempotent.
	Logout(ctx context.Context, userID uuid.UUID) error

	// ChangePassword replaces the password after checking the old one.
	// All sessions are ended.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error

	// CurrentUser returns the authenticated user's record.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateAccount changes email and/or full name. Nil fields are left unchanged.
	UpdateAccount(ctx context.Context, userID uuid.UUID, email, fullName *string) (*domain.User, error)

	// DeleteAccount removes the user together with all of their tasks.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// sessionService implements SessionService.
type sessionService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	logger     *slog.Logger
	timeFunc   func() time.Time
}

// NewSessionService creates a SessionService.
// If logger is nil, the default logger is used.
func NewSessionService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		logger:     logger.With(slog.String("component", "session_service")),
		timeFunc:   time.Now,
	}
}

// Register implements SessionService.
func (s *sessionService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	const op = "register"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, fullName)
	if err != nil {
		return nil, BadRequest(op, validationMessage(err), err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, Internal(op, err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			log.Debug("registration with existing email rejected")
			return nil, Conflict(op, MsgEmailExists, err)
		case errors.Is(err, domain.ErrValidation):
			return nil, BadRequest(op, validationMessage(err), err)
		default:
			log.Error("failed to create user", slog.String("error", err.Error()))
			return nil, Internal(op, err)
		}
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login implements SessionService.
func (s *sessionService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	const op = "login"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, BadRequest(op, "email and password are required", domain.ErrValidation)
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, NotFound(op, MsgUserNotFound, err)
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, nil, Internal(op, err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
			return nil, nil, Unauthorized(op, MsgInvalidCredentials, err)
		}
		log.Error("failed to verify password", slog.String("error", err.Error()))
		return nil, nil, Internal(op, err)
	}

	pair, err := s.issuePair(ctx, op, user)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Refresh implements SessionService.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	const op = "refresh"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if refreshToken == "" {
		return nil, nil, Unauthorized(op, MsgRefreshTokenRequired, auth.ErrMissingToken)
	}

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token failed verification", slog.String("error", err.Error()))
		return nil, nil, Unauthorized(op, MsgInvalidRefreshToken, err)
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, Unauthorized(op, MsgInvalidRefreshToken, err)
		}
		log.Error("failed to load user for refresh", slog.String("error", err.Error()))
		return nil, nil, Internal(op, err)
	}

	if !auth.RefreshTokenMatches(refreshToken, user.RefreshTokenHash) {
		log.Info("rejected refresh token that is not the current one",
			slog.String("user_id", user.ID.String()),
			slog.Bool("has_session", user.HasSession()))
		return nil, nil, Unauthorized(op, MsgRefreshTokenExpired, auth.ErrInvalidRefreshToken)
	}

	pair, err := s.issuePair(ctx, op, user)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("session refreshed", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

// Logout implements SessionService.
func (s *sessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "logout"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.userStore.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("logout for missing user", slog.String("user_id", userID.String()))
			return nil
		}
		log.Error("failed to clear refresh token", slog.String("error", err.Error()))
		return Internal(op, err)
	}

	log.Info("user logged out", slog.String("user_id", userID.String()))
	return nil
}

// ChangePassword implements SessionService.
func (s *sessionService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	const op = "change_password"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return s.userLookupError(ctx, op, err)
	}

	if err := s.verifier.Compare(user.HashedPassword, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return BadRequest(op, MsgInvalidOldPassword, err)
		}
		log.Error("failed to verify password", slog.String("error", err.Error()))
		return Internal(op, err)
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return BadRequest(op, validationMessage(err), err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return Internal(op, err)
	}

	if err := s.userStore.UpdatePassword(ctx, userID, hashed); err != nil {
		return s.userLookupError(ctx, op, err)
	}

	log.Info("password changed", slog.String("user_id", userID.String()))
	return nil
}

// CurrentUser implements SessionService.
func (s *sessionService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(ctx, "current_user", err)
	}
	return user, nil
}

// UpdateAccount implements SessionService.
func (s *sessionService) UpdateAccount(
	ctx context.Context,
	userID uuid.UUID,
	email, fullName *string,
) (*domain.User, error) {
	const op = "update_account"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if email == nil && fullName == nil {
		return nil, BadRequest(op, MsgAccountFieldsRequired, domain.ErrValidation)
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(ctx, op, err)
	}

	if email != nil {
		user.Email = domain.NormalizeEmail(*email)
	}
	if fullName != nil {
		user.FullName = strings.TrimSpace(*fullName)
	}
	if err := user.Validate(); err != nil {
		return nil, BadRequest(op, validationMessage(err), err)
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, Conflict(op, MsgEmailExists, err)
		case errors.Is(err, domain.ErrValidation):
			return nil, BadRequest(op, validationMessage(err), err)
		default:
			return nil, s.userLookupError(ctx, op, err)
		}
	}

	log.Info("account details updated", slog.String("user_id", userID.String()))
	return user, nil
}

// DeleteAccount implements SessionService.
func (s *sessionService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	const op = "delete_account"

	if err := s.userStore.Delete(ctx, userID); err != nil {
		return s.userLookupError(ctx, op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("account deleted", slog.String("user_id", userID.String()))
	return nil
}

// issuePair signs a new token pair for user and stores the refresh token's
// digest, overwriting whatever was there.
func (s *sessionService) issuePair(ctx context.Context, op string, user *domain.User) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate access token", slog.String("error", err.Error()))
		return nil, Internal(op, err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to generate refresh token", slog.String("error", err.Error()))
		return nil, Internal(op, err)
	}

	digest := auth.HashRefreshToken(refreshToken)
	if err := s.userStore.SetRefreshTokenHash(ctx, user.ID, &digest); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, Unauthorized(op, MsgInvalidRefreshToken, err)
		}
		log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return nil, Internal(op, err)
	}
	user.RefreshTokenHash = &digest

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.jwtService.AccessTokenLifetime()).UTC(),
		RefreshExpiresAt: now.Add(s.jwtService.RefreshTokenLifetime()).UTC(),
	}, nil
}

func (s *sessionService) userLookupError(ctx context.Context, op string, err error) *Error {
	if errors.Is(err, store.ErrUserNotFound) {
		return NotFound(op, MsgUserNotFound, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("user store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return Internal(op, err)
}
