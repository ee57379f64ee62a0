package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/api/dto"
	"github.com/fashionfiesta/helpdesk/internal/auth"
	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/service"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// StaffTicketsHandler exposes staff-only ticket endpoints.
type StaffTicketsHandler struct {
	tickets *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(tickets *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: tickets}
}

// ListAll handles GET /tickets/admin/all.
func (h *StaffTicketsHandler) ListAll(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := service.ListFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	result, err := h.tickets.ListAllTickets(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketPageResponse(result))
}

// UpdateStatus handles PUT /tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	var input service.StatusUpdateInput
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	input.AssignedTo = req.AssignedTo

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ticket updated",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// EditReply handles PUT /tickets/:ticketId/reply/:replyId.
func (h *StaffTicketsHandler) EditReply(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	reply, err := h.tickets.EditReply(c.UserContext(), actor, c.Params("ticketId"), c.Params("replyId"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "reply updated",
		"reply":   dto.NewReplyResponse(reply),
	})
}

// DeleteReply handles DELETE /tickets/:ticketId/reply/:replyId.
func (h *StaffTicketsHandler) DeleteReply(c *fiber.Ctx) error {
	actor, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.tickets.DeleteReply(c.UserContext(), actor, c.Params("ticketId"), c.Params("replyId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "reply deleted",
	})
}
