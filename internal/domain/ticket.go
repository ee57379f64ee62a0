package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

// TicketCategory enumerates the support categories offered on the contact form.
type TicketCategory string

const (
	CategoryGeneral         TicketCategory = "General"
	CategoryOrderIssue      TicketCategory = "Order Issue"
	CategoryPayment         TicketCategory = "Payment"
	CategoryReturnRefund    TicketCategory = "Return/Refund"
	CategoryTechnical       TicketCategory = "Technical"
	CategoryProductQuestion TicketCategory = "Product Question"
)

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case CategoryGeneral, CategoryOrderIssue, CategoryPayment, CategoryReturnRefund, CategoryTechnical, CategoryProductQuestion:
		return true
	}
	return false
}

// Ticket is the aggregate for customer support requests.
// CustomerID never changes after creation. LastActivity is refreshed by
// every mutation and drives default listing order.
type Ticket struct {
	ID           string
	CustomerID   string
	Subject      string
	Message      string
	Category     TicketCategory
	Priority     TicketPriority
	Status       TicketStatus
	AssignedTo   *string
	LastActivity time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated on reads; not columns of the tickets table.
	Customer    *User
	Assignee    *User
	Replies     []Reply
	Attachments []Attachment
}

// HasStaffReply reports whether any staff member has replied. Several
// customer-side permissions (content edits, deletion) hinge on this.
func (t *Ticket) HasStaffReply() bool {
	for i := range t.Replies {
		if t.Replies[i].IsStaff {
			return true
		}
	}
	return false
}

// Attachment stores metadata for a file kept in external object storage.
type Attachment struct {
	ID         string
	TicketID   string
	FileName   string
	FileURL    string
	FileSize   int64
	FileType   string
	UploadedAt time.Time
}
