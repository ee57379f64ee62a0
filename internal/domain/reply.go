package domain

import "time"

// Reply is one message on a ticket thread. IsStaff is fixed at creation
// from the author's role and governs all later edit/delete authorization.
type Reply struct {
	ID        string
	TicketID  string
	UserID    string
	Message   string
	IsStaff   bool
	CreatedAt time.Time
	EditedAt  *time.Time
	EditedBy  *string

	Author *User
}
