package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/api/dto"
	"github.com/fashionfiesta/helpdesk/internal/auth"
	"github.com/fashionfiesta/helpdesk/internal/config"
	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/report"
	"github.com/fashionfiesta/helpdesk/internal/service"
	"github.com/fashionfiesta/helpdesk/internal/storage"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// TicketsHandler exposes the customer-facing ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	store   storage.ObjectStore
	upload  config.UploadConfig
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, store storage.ObjectStore, upload config.UploadConfig, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, store: store, upload: upload, logger: logger}
}

// Create handles POST /tickets. The body is multipart form data so ticket
// fields and attachment files arrive in one request.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.CreateTicketInput{
		Subject:  c.FormValue("subject"),
		Message:  c.FormValue("message"),
		Category: domain.TicketCategory(c.FormValue("category")),
		Priority: domain.TicketPriority(c.FormValue("priority")),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		attachments, err := h.storeUploads(c, form.File["attachments"])
		if err != nil {
			return err
		}
		input.Attachments = attachments
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), actor, input)
	if err != nil {
		return err
	}

	resp := dto.NewTicketResponse(ticket)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "ticket created",
		"ticket":  resp,
	})
}

// MyTickets handles GET /tickets/my-tickets.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	result, err := h.tickets.ListCustomerTickets(c.UserContext(), actor, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketPageResponse(result))
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := h.tickets.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// Reply handles POST /tickets/:id/reply.
func (h *TicketsHandler) Reply(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	ticket, err := h.tickets.AddReply(c.UserContext(), actor, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "reply added",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// Update handles PUT /tickets/:id. A JSON body edits content fields; a
// multipart body may also replace the attachment list.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var input service.UpdateTicketInput
	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		if v := c.FormValue("subject"); v != "" {
			input.Subject = &v
		}
		if v := c.FormValue("message"); v != "" {
			input.Message = &v
		}
		if v := c.FormValue("category"); v != "" {
			category := domain.TicketCategory(v)
			input.Category = &category
		}
		if v := c.FormValue("priority"); v != "" {
			priority := domain.TicketPriority(v)
			input.Priority = &priority
		}
		if form, err := c.MultipartForm(); err == nil && form != nil {
			if files := form.File["attachments"]; len(files) > 0 {
				attachments, err := h.storeUploads(c, files)
				if err != nil {
					return err
				}
				input.Attachments = &attachments
			}
		}
	} else {
		var req dto.UpdateTicketRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload")
		}
		input.Subject = req.Subject
		input.Message = req.Message
		if req.Category != nil {
			category := domain.TicketCategory(*req.Category)
			input.Category = &category
		}
		if req.Priority != nil {
			priority := domain.TicketPriority(*req.Priority)
			input.Priority = &priority
		}
	}

	ticket, err := h.tickets.UpdateContent(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ticket updated",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.tickets.DeleteTicket(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ticket deleted",
	})
}

// DownloadPDF handles GET /tickets/:id/download-pdf, rendering the ticket
// and its thread as a printable document.
func (h *TicketsHandler) DownloadPDF(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := h.tickets.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ticket-`+ticket.ID+`.pdf"`)
	if err := report.WriteTicketPDF(c.Response().BodyWriter(), ticket); err != nil {
		h.logger.Error("ticket pdf render failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return nil
}

// storeUploads validates and persists multipart files, returning attachment
// metadata for the service layer.
func (h *TicketsHandler) storeUploads(c *fiber.Ctx, files []*multipart.FileHeader) ([]service.AttachmentInput, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if h.upload.MaxFiles > 0 && len(files) > h.upload.MaxFiles {
		return nil, apperrors.NewValidationError("too many attachments")
	}

	attachments := make([]service.AttachmentInput, 0, len(files))
	for _, fileHeader := range files {
		if err := service.ValidateAttachmentFile(fileHeader.Filename, fileHeader.Size, h.upload.MaxFileSize); err != nil {
			return nil, err
		}
		src, err := fileHeader.Open()
		if err != nil {
			return nil, apperrors.NewValidationError("could not read uploaded file")
		}
		stored, err := h.store.Store(c.UserContext(), fileHeader.Filename, src)
		src.Close()
		if err != nil {
			h.logger.Error("attachment upload failed",
				zap.String("file", fileHeader.Filename), zap.Error(err))
			return nil, apperrors.NewDependencyError(err)
		}
		attachments = append(attachments, service.AttachmentInput{
			FileName: fileHeader.Filename,
			FileURL:  stored.URL,
			FileSize: stored.Size,
			FileType: fileHeader.Header.Get("Content-Type"),
		})
	}
	return attachments, nil
}
