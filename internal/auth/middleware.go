package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/repository"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Operator     *domain.Operator
	IsEscalation bool
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	operators  repository.OperatorRepository
	escalation repository.EscalationRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, operators repository.OperatorRepository, escalation repository.EscalationRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, operators: operators, escalation: escalation}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	operator, err := m.operators.GetByID(c.Context(), claims.OperatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("operator not found")
		}
		return apperrors.MapError(err)
	}
	if !operator.IsActive {
		return apperrors.NewUnauthorized("operator deactivated")
	}

	isEscalation, err := m.escalation.IsMember(c.Context(), operator.ID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Operator: operator, IsEscalation: isEscalation})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
