package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// AuthService coordinates operator login and password changes.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	OperatorRepo repository.OperatorRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		operators:  deps.OperatorRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the JWT manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates an operator by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Operator, string, time.Time, error) {
	op, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !op.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("operator deactivated")
	}
	if err := auth.ComparePassword(op.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(op.ID, op.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return op, token, exp, nil
}

// ChangePassword rotates an operator's password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, operatorID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	op, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("operator", map[string]any{"operator_id": operatorID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(op.PasswordHash, oldPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	op.PasswordHash = hash
	if err := s.operators.Update(ctx, op); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
