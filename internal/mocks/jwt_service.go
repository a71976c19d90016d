package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskr/taskr-api/internal/service/auth"
)

// MockJWTService is a configurable auth.JWTService. A non-nil ...Fn field
// overrides the matching method; otherwise the canned values are returned.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token           string
	RefreshToken    string
	Err             error
	ValidateErr     error
	Claims          *auth.Claims
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return m.RefreshToken, m.Err
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// AccessTokenLifetime defaults to 15 minutes.
func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	if m.AccessLifetime == 0 {
		return 15 * time.Minute
	}
	return m.AccessLifetime
}

// RefreshTokenLifetime defaults to 7 days.
func (m *MockJWTService) RefreshTokenLifetime() time.Duration {
	if m.RefreshLifetime == 0 {
		return 7 * 24 * time.Hour
	}
	return m.RefreshLifetime
}
