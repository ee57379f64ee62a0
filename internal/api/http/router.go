package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/api/http/handlers"
	"github.com/fashionfiesta/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Dashboard      *handlers.DashboardHandler
	Reports        *handlers.ReportsHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	app.Get("/files/:key", cfg.Files.Serve)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuth())
	// fixed paths are registered before the :id routes so they match first
	tickets.Get("/my-tickets", cfg.Tickets.MyTickets)
	tickets.Get("/admin/all", auth.RequireStaff(), cfg.StaffTickets.ListAll)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/reply", cfg.Tickets.Reply)
	tickets.Get("/:id/download-pdf", cfg.Tickets.DownloadPDF)
	tickets.Put("/:id/status", auth.RequireStaff(), cfg.StaffTickets.UpdateStatus)
	tickets.Put("/:ticketId/reply/:replyId", auth.RequireStaff(), cfg.StaffTickets.EditReply)
	tickets.Delete("/:ticketId/reply/:replyId", auth.RequireStaff(), cfg.StaffTickets.DeleteReply)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	dashboard.Get("/stats", cfg.Dashboard.Stats)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	reports.Get("/tickets", cfg.Reports.Tickets)
	reports.Get("/users", cfg.Reports.Users)
}
