package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/oncall-service/internal/api/http/handlers"
	"github.com/spec-kit/oncall-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	OnCall         *handlers.OnCallHandler
	Calendar       *handlers.CalendarHandler
	Swaps          *handlers.SwapsHandler
	Overrides      *handlers.OverridesHandler
	Operators      *handlers.OperatorsHandler
	Rotation       *handlers.RotationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireOperator())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Get("/oncall/current", cfg.OnCall.Current)
	protected.Get("/oncall/:date", cfg.OnCall.ByDate)

	protected.Get("/calendar/range", cfg.Calendar.Range)
	protected.Get("/calendar/feed.ics", cfg.Calendar.Feed)
	protected.Get("/calendar/export/:year", cfg.Calendar.ExportYear)
	protected.Get("/calendar/:year/:month", cfg.Calendar.Month)

	protected.Post("/swaps", cfg.Swaps.Create)
	protected.Get("/swaps", cfg.Swaps.List)
	protected.Post("/swaps/:id/approve", cfg.Swaps.Approve)
	protected.Post("/swaps/:id/reject", cfg.Swaps.Reject)

	escalation := protected.Group("/overrides", auth.RequireEscalation())
	escalation.Post("", cfg.Overrides.Create)
	protected.Get("/overrides", cfg.Overrides.List)

	admin := protected.Group("", auth.RequireAdmin())
	admin.Post("/operators", cfg.Operators.Create)
	admin.Post("/operators/:id/deactivate", cfg.Operators.Deactivate)
	admin.Post("/escalation", cfg.Operators.AddEscalationMember)
	admin.Delete("/escalation/:operatorId", cfg.Operators.RemoveEscalationMember)
	protected.Get("/operators", cfg.Operators.List)
	protected.Get("/escalation", cfg.Operators.ListEscalationMembers)

	admin.Post("/rotation/generate", cfg.Rotation.GenerateWeeks)
	protected.Get("/rotation/days-remaining", cfg.Rotation.DaysRemaining)
}
