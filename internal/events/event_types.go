package events

import (
	"time"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventStaffReplied        EventType = "staff_replied"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffRepliedPayload carries everything the notification dispatcher needs
// to email the ticket's customer without re-reading the store.
type StaffRepliedPayload struct {
	Ticket *domain.Ticket `json:"ticket"`
	Reply  *domain.Reply  `json:"reply"`
	Staff  *domain.User   `json:"staff"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string                `json:"subject"`
	Category domain.TicketCategory `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
}
