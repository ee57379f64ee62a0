package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/service"
)

// DashboardHandler exposes the staff dashboard aggregates.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
