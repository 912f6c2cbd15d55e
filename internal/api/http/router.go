package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-staffing-service/internal/api/http/handlers"
	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Events         *handlers.EventsHandler
	Donations      *handlers.DonationsHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Accounts.Login)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/owners", cfg.Accounts.ProvisionOwner)
	admin.Get("/owners", cfg.Accounts.ListOwners)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleOwner))
	staff.Get("/roster", cfg.Accounts.StaffRoster)
	staff.Post("/roster/sent-credentials", cfg.Accounts.MarkCredentialsSent)

	events := app.Group("/events", cfg.AuthMiddleware.Handle)

	// Role checks per route: mutation is owner-only, reads are open to
	// the roster roles too. Owners list what they own; roster staff
	// list what they are assigned to.
	ownerOnly := auth.RequireRole(domain.RoleOwner)
	rosterRoles := auth.RequireRole(domain.RoleOwner, domain.RolePresenter, domain.RoleDeskOperator)

	events.Get("", rosterRoles, cfg.Events.List)
	events.Post("", ownerOnly, cfg.Events.Create)
	events.Put("/:id", ownerOnly, cfg.Events.Update)
	events.Delete("/:id", ownerOnly, cfg.Events.Delete)
	events.Get("/:id", rosterRoles, cfg.Events.Get)
	events.Get("/:id/template", rosterRoles, cfg.Events.CurrentTemplate)
	events.Get("/:id/donations", rosterRoles, cfg.Donations.List)
	events.Post("/:id/donations", rosterRoles, cfg.Donations.Record)
}
