package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/domain"
)

// RequireOperator ensures any authenticated operator.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Operator == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if principal.Operator.Role != domain.RoleAdmin {
			return fiber.NewError(http.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

// RequireEscalation ensures the caller is an escalation member or admin.
func RequireEscalation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Operator == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !principal.IsEscalation && principal.Operator.Role != domain.RoleAdmin {
			return fiber.NewError(http.StatusForbidden, "escalation membership required")
		}
		return c.Next()
	}
}
