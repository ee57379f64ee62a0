package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/events"
	"github.com/fashionfiesta/helpdesk/internal/mail"
)

// NotificationService emails customers when staff reply to their tickets.
// It is a pure event consumer: delivery failures are logged and swallowed,
// never surfaced to the request that triggered them.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	baseURL    string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, baseURL string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// RegisterHandlers subscribes to the events this service reacts to.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffReplied, n.handleStaffReplied)
}

func (n *NotificationService) handleStaffReplied(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffRepliedPayload)
	if !ok || payload.Ticket == nil || payload.Reply == nil {
		n.logger.Warn("staff reply event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	if payload.Ticket.Customer == nil || payload.Ticket.Customer.Email == "" {
		n.logger.Warn("no customer email for reply notification", zap.String("ticket_id", event.TicketID))
		return nil
	}

	msg := n.buildReplyEmail(payload)
	result := n.mailer.Send(ctx, msg)
	switch {
	case result.Simulated:
		n.logger.Info("reply notification simulated",
			zap.String("ticket_id", event.TicketID),
			zap.String("message_id", result.MessageID))
	case result.Delivered:
		n.logger.Info("reply notification sent",
			zap.String("ticket_id", event.TicketID),
			zap.String("to", msg.To),
			zap.String("message_id", result.MessageID))
	default:
		n.logger.Error("reply notification failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("to", msg.To),
			zap.Error(result.Err))
	}
	return nil
}

func (n *NotificationService) buildReplyEmail(payload events.StaffRepliedPayload) mail.Message {
	ticket := payload.Ticket
	staffName := "our support team"
	if payload.Staff != nil {
		staffName = payload.Staff.Name
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", ticket.Customer.Name)
	fmt.Fprintf(&body, "%s has replied to your support ticket.\n\n", staffName)
	fmt.Fprintf(&body, "Ticket: %s\n", ticket.ID)
	fmt.Fprintf(&body, "Subject: %s\n", ticket.Subject)
	fmt.Fprintf(&body, "Status: %s\n", ticket.Status)
	fmt.Fprintf(&body, "Priority: %s\n\n", ticket.Priority)
	fmt.Fprintf(&body, "Reply:\n%s\n\n", payload.Reply.Message)
	fmt.Fprintf(&body, "View your ticket: %s/tickets/%s\n\n", n.baseURL, ticket.ID)
	body.WriteString("Fashion Fiesta Customer Support\n")

	return mail.Message{
		To:      ticket.Customer.Email,
		Subject: fmt.Sprintf("New reply on your support ticket: %s", ticket.Subject),
		Body:    body.String(),
	}
}
