package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/dto"
	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/service"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// OperatorsHandler manages operator administration endpoints.
type OperatorsHandler struct {
	operators *service.OperatorService
}

// NewOperatorsHandler constructs handler.
func NewOperatorsHandler(operators *service.OperatorService) *OperatorsHandler {
	return &OperatorsHandler{operators: operators}
}

// Create POST /operators.
func (h *OperatorsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	op, err := h.operators.CreateOperator(c.Context(), service.OperatorCreateInput{
		DisplayName:   req.DisplayName,
		DomainAccount: req.DomainAccount,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		ColorCode:     req.ColorCode,
		Role:          domain.OperatorRole(req.Role),
		Password:      req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOperatorResponse(op)})
}

// List GET /operators?active=true.
func (h *OperatorsHandler) List(c *fiber.Ctx) error {
	onlyActive, _ := strconv.ParseBool(c.Query("active", "false"))
	ops, err := h.operators.ListOperators(c.Context(), onlyActive)
	if err != nil {
		return err
	}
	items := make([]dto.OperatorResponse, 0, len(ops))
	for i := range ops {
		items = append(items, dto.NewOperatorResponse(&ops[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Deactivate POST /operators/:id/deactivate.
func (h *OperatorsHandler) Deactivate(c *fiber.Ctx) error {
	op, err := h.operators.DeactivateOperator(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOperatorResponse(op)})
}

// AddEscalationMember POST /escalation.
func (h *OperatorsHandler) AddEscalationMember(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.AddEscalationMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OperatorID == "" {
		return apperrors.NewValidationError("operator_id required", nil)
	}

	member, err := h.operators.AddEscalationMember(c.Context(), principal.Operator.ID, req.OperatorID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.EscalationMemberResponse{
		OperatorID: member.OperatorID,
		AddedBy:    member.AddedBy,
		AddedAt:    member.AddedAt,
	}})
}

// RemoveEscalationMember DELETE /escalation/:operatorId.
func (h *OperatorsHandler) RemoveEscalationMember(c *fiber.Ctx) error {
	if err := h.operators.RemoveEscalationMember(c.Context(), c.Params("operatorId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListEscalationMembers GET /escalation.
func (h *OperatorsHandler) ListEscalationMembers(c *fiber.Ctx) error {
	members, err := h.operators.ListEscalationMembers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.EscalationMemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, dto.EscalationMemberResponse{
			OperatorID: m.OperatorID,
			AddedBy:    m.AddedBy,
			AddedAt:    m.AddedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
