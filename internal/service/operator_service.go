package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// OperatorService handles operator administration and the escalation set.
type OperatorService struct {
	operators  repository.OperatorRepository
	escalation repository.EscalationRepository
	bcryptCost int
}

// OperatorDependencies bundles repositories for operator admin.
type OperatorDependencies struct {
	OperatorRepo   repository.OperatorRepository
	EscalationRepo repository.EscalationRepository
	BcryptCost     int
}

// OperatorCreateInput describes an operator creation payload.
type OperatorCreateInput struct {
	DisplayName   string
	DomainAccount string
	Email         string
	PhoneNumber   string
	ColorCode     string
	Role          domain.OperatorRole
	Password      string
}

// NewOperatorService constructs the service.
func NewOperatorService(deps OperatorDependencies) *OperatorService {
	return &OperatorService{
		operators:  deps.OperatorRepo,
		escalation: deps.EscalationRepo,
		bcryptCost: deps.BcryptCost,
	}
}

// CreateOperator registers a new operator account.
func (s *OperatorService) CreateOperator(ctx context.Context, input OperatorCreateInput) (*domain.Operator, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.DisplayName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("display_name, email, password required", nil)
	}

	if _, err := s.operators.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleOperator
	}

	op := &domain.Operator{
		DisplayName:   strings.TrimSpace(input.DisplayName),
		DomainAccount: strings.TrimSpace(input.DomainAccount),
		Email:         input.Email,
		PhoneNumber:   strings.TrimSpace(input.PhoneNumber),
		ColorCode:     strings.TrimSpace(input.ColorCode),
		Role:          role,
		PasswordHash:  hash,
		IsActive:      true,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return nil, apperrors.MapError(err)
	}
	return op, nil
}

// DeactivateOperator retires an operator. Historical assignments are kept:
// deactivation only stops future scheduling and logins.
func (s *OperatorService) DeactivateOperator(ctx context.Context, operatorID string) (*domain.Operator, error) {
	op, err := s.getOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !op.IsActive {
		return nil, apperrors.NewInvalidState("operator already deactivated", map[string]any{"operator_id": operatorID})
	}
	op.IsActive = false
	if err := s.operators.Update(ctx, op); err != nil {
		return nil, apperrors.MapError(err)
	}
	return op, nil
}

// ListOperators returns all operators, optionally only active ones.
func (s *OperatorService) ListOperators(ctx context.Context, onlyActive bool) ([]domain.Operator, error) {
	ops, err := s.operators.List(ctx, onlyActive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ops, nil
}

// AddEscalationMember grants override authority to an operator.
func (s *OperatorService) AddEscalationMember(ctx context.Context, actorID, operatorID string) (*domain.EscalationMember, error) {
	op, err := s.getOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !op.IsActive {
		return nil, apperrors.NewValidationError("cannot add a deactivated operator to escalation", map[string]any{"operator_id": operatorID})
	}
	member := &domain.EscalationMember{OperatorID: operatorID, AddedBy: actorID}
	if err := s.escalation.Add(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// RemoveEscalationMember revokes override authority.
func (s *OperatorService) RemoveEscalationMember(ctx context.Context, operatorID string) error {
	if err := s.escalation.Remove(ctx, operatorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("escalation member", map[string]any{"operator_id": operatorID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListEscalationMembers returns the escalation set.
func (s *OperatorService) ListEscalationMembers(ctx context.Context) ([]domain.EscalationMember, error) {
	members, err := s.escalation.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

func (s *OperatorService) getOperator(ctx context.Context, operatorID string) (*domain.Operator, error) {
	op, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", map[string]any{"operator_id": operatorID})
		}
		return nil, apperrors.MapError(err)
	}
	return op, nil
}
