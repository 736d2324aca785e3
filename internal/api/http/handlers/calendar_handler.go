package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/service"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// CalendarHandler serves calendar projections and exports.
type CalendarHandler struct {
	calendar *service.CalendarService
	export   *service.ExportService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *service.CalendarService, export *service.ExportService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, export: export}
}

// Month GET /calendar/:year/:month.
func (h *CalendarHandler) Month(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return apperrors.NewValidationError("invalid year", nil)
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 1 || month > 12 {
		return apperrors.NewValidationError("invalid month", nil)
	}

	cells, err := h.calendar.ProjectMonth(c.Context(), year, time.Month(month))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cells})
}

// Range GET /calendar/range?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *CalendarHandler) Range(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("start"), "start")
	if err != nil {
		return err
	}
	end, err := parseDate(c.Query("end"), "end")
	if err != nil {
		return err
	}

	cells, err := h.calendar.ProjectRange(c.Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cells})
}

// ExportYear GET /calendar/export/:year.
func (h *CalendarHandler) ExportYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return apperrors.NewValidationError("invalid year", nil)
	}

	buf, filename, err := h.export.ExportYear(c.Context(), year)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

// Feed GET /calendar/feed.ics?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *CalendarHandler) Feed(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("start"), "start")
	if err != nil {
		return err
	}
	end, err := parseDate(c.Query("end"), "end")
	if err != nil {
		return err
	}

	feed, err := h.export.BuildICS(c.Context(), start, end)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.SendString(feed)
}
