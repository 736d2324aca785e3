package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/dto"
	"github.com/spec-kit/oncall-service/internal/service"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// RotationHandler serves planner endpoints.
type RotationHandler struct {
	planner *service.PlannerService
}

// NewRotationHandler constructs handler.
func NewRotationHandler(planner *service.PlannerService) *RotationHandler {
	return &RotationHandler{planner: planner}
}

// GenerateWeeks POST /rotation/generate.
func (h *RotationHandler) GenerateWeeks(c *fiber.Ctx) error {
	var req dto.GenerateWeeksRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	startDate := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := parseDate(req.StartDate, "start_date")
		if err != nil {
			return err
		}
		startDate = parsed
	}

	weeks, err := h.planner.GenerateWeeks(c.Context(), req.OperatorSequence, startDate, req.Count)
	if err != nil {
		return err
	}
	items := make([]dto.RotationWeekResponse, 0, len(weeks))
	for i := range weeks {
		items = append(items, dto.NewRotationWeekResponse(&weeks[i]))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": items})
}

// DaysRemaining GET /rotation/days-remaining.
func (h *RotationHandler) DaysRemaining(c *fiber.Ctx) error {
	days, err := h.planner.DaysRemaining(c.Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"days_remaining": days}})
}
