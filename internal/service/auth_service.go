package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/config"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// AuthService coordinates login flows for every role.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// Login authenticates an account and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.CompareSecret(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.ExpiresAt != nil && user.ExpiresAt.Before(time.Now()) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account expired")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
