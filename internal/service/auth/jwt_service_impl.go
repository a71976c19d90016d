package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/platform/logger"
)

const (
	minSecretLength  = 32
	defaultClockSkew = 2 * time.Minute
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	access    tokenKind
	refresh   tokenKind
	timeFunc  func() time.Time // Injectable for testing
	clockSkew time.Duration
}

// tokenKind bundles what differs between access and refresh tokens.
type tokenKind struct {
	typ         string
	signingKey  []byte
	lifetime    time.Duration
	errInvalid  error
	errExpired  error
	errNotValid error
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
// Refresh tokens are signed with cfg.RefreshSecret when set and with
// cfg.JWTSecret otherwise.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}

	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.JWTSecret
	} else if len(refreshSecret) < minSecretLength {
		return nil, fmt.Errorf("refresh secret must be at least %d characters", minSecretLength)
	}

	if cfg.AccessTokenLifetime() <= 0 || cfg.RefreshTokenLifetime() <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return newHMACJWTService(
		[]byte(cfg.JWTSecret),
		[]byte(refreshSecret),
		cfg.AccessTokenLifetime(),
		cfg.RefreshTokenLifetime(),
		time.Now,
		defaultClockSkew,
	), nil
}

func newHMACJWTService(
	accessKey, refreshKey []byte,
	accessLifetime, refreshLifetime time.Duration,
	timeFunc func() time.Time,
	clockSkew time.Duration,
) *hmacJWTService {
	return &hmacJWTService{
		access: tokenKind{
			typ:         TokenTypeAccess,
			signingKey:  accessKey,
			lifetime:    accessLifetime,
			errInvalid:  ErrInvalidToken,
			errExpired:  ErrExpiredToken,
			errNotValid: ErrTokenNotYetValid,
		},
		refresh: tokenKind{
			typ:         TokenTypeRefresh,
			signingKey:  refreshKey,
			lifetime:    refreshLifetime,
			errInvalid:  ErrInvalidRefreshToken,
			errExpired:  ErrExpiredRefreshToken,
			errNotValid: ErrInvalidRefreshToken,
		},
		timeFunc:  timeFunc,
		clockSkew: clockSkew,
	}
}

// GenerateToken creates a signed JWT access token with user claims.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, s.access, userID)
}

// GenerateRefreshToken creates a signed JWT refresh token with user claims.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, s.refresh, userID)
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, s.access, tokenString)
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims if valid.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(ctx, s.refresh, tokenString)
}

func (s *hmacJWTService) AccessTokenLifetime() time.Duration {
	return s.access.lifetime
}

func (s *hmacJWTService) RefreshTokenLifetime() time.Duration {
	return s.refresh.lifetime
}

func (s *hmacJWTService) sign(ctx context.Context, kind tokenKind, userID uuid.UUID) (string, error) {
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: kind.typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.lifetime)),
			// unique per token so two tokens issued in the same second still differ
			ID: uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(kind.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign JWT",
			"error", err,
			"user_id", userID,
			"token_type", kind.typ,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", kind.typ, err)
	}

	return signedToken, nil
}

func (s *hmacJWTService) validate(ctx context.Context, kind tokenKind, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return kind.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "token_type", kind.typ)
			return nil, kind.errExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token validation failed: token not yet valid", "token_type", kind.typ)
			return nil, kind.errNotValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"token_type", kind.typ,
				"error_type", fmt.Sprintf("%T", err))
			return nil, kind.errInvalid
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims", "token_type", kind.typ)
		return nil, kind.errInvalid
	}

	if claims.TokenType != kind.typ {
		log.Debug("token validation failed: wrong token type",
			"expected", kind.typ,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	if claims.UserID == uuid.Nil {
		return nil, kind.errInvalid
	}

	result := &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
