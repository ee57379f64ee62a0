package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/auth"
	"github.com/fashionfiesta/helpdesk/internal/report"
	"github.com/fashionfiesta/helpdesk/internal/service"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// ReportsHandler serves staff exports of tickets and users.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Tickets handles GET /reports/tickets?format=pdf|xlsx|csv.
func (h *ReportsHandler) Tickets(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	format, ok := report.ParseFormat(c.Query("format"))
	if !ok {
		return apperrors.NewValidationError("unknown report format (pdf, xlsx, csv)")
	}

	setExportHeaders(c, format, "ticket-report")
	return h.reports.WriteTicketReport(c.UserContext(), actor, format, c.Response().BodyWriter())
}

// Users handles GET /reports/users?format=pdf|xlsx|csv.
func (h *ReportsHandler) Users(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	format, ok := report.ParseFormat(c.Query("format"))
	if !ok {
		return apperrors.NewValidationError("unknown report format (pdf, xlsx, csv)")
	}

	setExportHeaders(c, format, "user-report")
	return h.reports.WriteUserReport(c.UserContext(), actor, format, c.Response().BodyWriter())
}

func setExportHeaders(c *fiber.Ctx, format report.Format, baseName string) {
	fileName := baseName + "-" + time.Now().Format("2006-01-02") + format.Extension()
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
}
