package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/dto"
	"github.com/spec-kit/oncall-service/internal/service"
)

// OnCallHandler serves duty resolution endpoints.
type OnCallHandler struct {
	duty  *service.DutyService
	cache *service.DutyCache
}

// NewOnCallHandler constructs handler.
func NewOnCallHandler(duty *service.DutyService, cache *service.DutyCache) *OnCallHandler {
	return &OnCallHandler{duty: duty, cache: cache}
}

// Current GET /oncall/current.
func (h *OnCallHandler) Current(c *fiber.Ctx) error {
	today := time.Now().UTC()
	if cached, ok := h.cache.Get(c.Context(), today); ok {
		return c.JSON(fiber.Map{"data": dto.NewDutyResponse(cached)})
	}

	assignment, err := h.duty.ResolveDutyFor(c.Context(), today)
	if err != nil {
		return err
	}
	h.cache.Set(c.Context(), assignment)
	return c.JSON(fiber.Map{"data": dto.NewDutyResponse(assignment)})
}

// ByDate GET /oncall/:date.
func (h *OnCallHandler) ByDate(c *fiber.Ctx) error {
	date, err := parseDate(c.Params("date"), "date")
	if err != nil {
		return err
	}
	assignment, err := h.duty.ResolveDutyFor(c.Context(), date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDutyResponse(assignment)})
}
