package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/dto"
	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/domain"
	"github.com/spec-kit/oncall-service/internal/service"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// SwapsHandler manages swap request endpoints.
type SwapsHandler struct {
	swaps *service.SwapService
}

// NewSwapsHandler constructs handler.
func NewSwapsHandler(swaps *service.SwapService) *SwapsHandler {
	return &SwapsHandler{swaps: swaps}
}

// Create POST /swaps.
func (h *SwapsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.CreateSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.WeekStart == "" || req.TargetID == "" {
		return apperrors.NewValidationError("week_start, target_id required", nil)
	}
	weekStart, err := parseDate(req.WeekStart, "week_start")
	if err != nil {
		return err
	}

	swap, err := h.swaps.CreateSwap(c.Context(), principal.Operator.ID, service.SwapCreateInput{
		WeekStart: weekStart,
		TargetID:  req.TargetID,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSwapResponse(swap)})
}

// Approve POST /swaps/:id/approve.
func (h *SwapsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	swap, err := h.swaps.Approve(c.Context(), c.Params("id"), principal.Operator.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSwapResponse(swap)})
}

// Reject POST /swaps/:id/reject.
func (h *SwapsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.RejectSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	swap, err := h.swaps.Reject(c.Context(), c.Params("id"), principal.Operator.ID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSwapResponse(swap)})
}

// List GET /swaps?view=pending-for-me|mine|history.
func (h *SwapsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}

	var (
		swaps []domain.SwapRequest
		err   error
	)
	switch view := c.Query("view", "pending-for-me"); view {
	case "pending-for-me":
		swaps, err = h.swaps.ListPendingForTarget(c.Context(), principal.Operator.ID)
	case "mine":
		swaps, err = h.swaps.ListMine(c.Context(), principal.Operator.ID)
	case "history":
		swaps, err = h.swaps.ListHistory(c.Context(), principal.Operator.ID)
	default:
		return apperrors.NewValidationError("unknown view", map[string]any{"view": view})
	}
	if err != nil {
		return err
	}

	items := make([]dto.SwapResponse, 0, len(swaps))
	for i := range swaps {
		items = append(items, dto.NewSwapResponse(&swaps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
