package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/dto"
	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/service"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// OverridesHandler manages day override endpoints.
type OverridesHandler struct {
	overrides *service.OverrideService
}

// NewOverridesHandler constructs handler.
func NewOverridesHandler(overrides *service.OverrideService) *OverridesHandler {
	return &OverridesHandler{overrides: overrides}
}

// Create POST /overrides.
func (h *OverridesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return apperrors.NewUnauthorized("operator required")
	}
	var req dto.CreateOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Date == "" || req.CoveringOperatorID == "" {
		return apperrors.NewValidationError("date, covering_operator_id required", nil)
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return err
	}

	override, err := h.overrides.CreateOverride(c.Context(), principal.Operator.ID, date, req.CoveringOperatorID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOverrideResponse(override)})
}

// List GET /overrides?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *OverridesHandler) List(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("start"), "start")
	if err != nil {
		return err
	}
	end, err := parseDate(c.Query("end"), "end")
	if err != nil {
		return err
	}

	overrides, err := h.overrides.ListRange(c.Context(), start, end)
	if err != nil {
		return err
	}
	items := make([]dto.OverrideResponse, 0, len(overrides))
	for i := range overrides {
		items = append(items, dto.NewOverrideResponse(&overrides[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
