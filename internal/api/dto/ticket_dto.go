package dto

import (
	"time"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/service"
	"github.com/fashionfiesta/helpdesk/internal/ticketform"
)

// ReplyRequest payload.
type ReplyRequest struct {
	Message string `json:"message"`
}

// UpdateStatusRequest payload. Absent fields are left untouched; an empty
// assignedTo clears the assignment.
type UpdateStatusRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

// UpdateTicketRequest payload for JSON content edits. Attachment changes go
// through the multipart variant of the endpoint instead.
type UpdateTicketRequest struct {
	Subject  *string `json:"subject"`
	Message  *string `json:"message"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
}

// UserRef is the trimmed user shape embedded in ticket responses.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	FileSize   int64     `json:"fileSize"`
	FileType   string    `json:"fileType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ReplyResponse is one thread message.
type ReplyResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Message   string     `json:"message"`
	IsStaff   bool       `json:"isStaff"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	EditedBy  *string    `json:"editedBy,omitempty"`
	Author    *UserRef   `json:"author,omitempty"`
}

// FormDetails is the structured-fields block recovered from a message that
// follows the contact-form convention.
type FormDetails struct {
	CustomerName      string `json:"customerName,omitempty"`
	CustomerEmail     string `json:"customerEmail,omitempty"`
	CustomerPhone     string `json:"customerPhone,omitempty"`
	PreferredContact  string `json:"preferredContact,omitempty"`
	OrderNumber       string `json:"orderNumber,omitempty"`
	IssueDate         string `json:"issueDate,omitempty"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

// TicketResponse is the full ticket shape.
type TicketResponse struct {
	ID           string               `json:"id"`
	CustomerID   string               `json:"customerId"`
	Subject      string               `json:"subject"`
	Message      string               `json:"message"`
	Category     string               `json:"category"`
	Priority     string               `json:"priority"`
	Status       string               `json:"status"`
	AssignedTo   *string              `json:"assignedTo"`
	LastActivity time.Time            `json:"lastActivity"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Customer     *UserRef             `json:"customer,omitempty"`
	Assignee     *UserRef             `json:"assignee,omitempty"`
	Replies      []ReplyResponse      `json:"replies"`
	Attachments  []AttachmentResponse `json:"attachments"`
	FormDetails  *FormDetails         `json:"formDetails,omitempty"`
}

// TicketPageResponse is one listing page.
type TicketPageResponse struct {
	Success    bool               `json:"success"`
	Tickets    []TicketResponse   `json:"tickets"`
	Pagination service.Pagination `json:"pagination"`
	Degraded   bool               `json:"degraded,omitempty"`
}

// NewUserRef converts a domain user, tolerating nil.
func NewUserRef(u *domain.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

// NewReplyResponse converts a domain reply.
func NewReplyResponse(r *domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Message:   r.Message,
		IsStaff:   r.IsStaff,
		CreatedAt: r.CreatedAt,
		EditedAt:  r.EditedAt,
		EditedBy:  r.EditedBy,
		Author:    NewUserRef(r.Author),
	}
}

// NewAttachmentResponse converts domain attachment metadata.
func NewAttachmentResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		FileName:   a.FileName,
		FileURL:    a.FileURL,
		FileSize:   a.FileSize,
		FileType:   a.FileType,
		UploadedAt: a.UploadedAt,
	}
}

// NewTicketResponse converts a domain ticket with whatever associations are
// loaded on it.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		Subject:      t.Subject,
		Message:      t.Message,
		Category:     string(t.Category),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		AssignedTo:   t.AssignedTo,
		LastActivity: t.LastActivity,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Customer:     NewUserRef(t.Customer),
		Assignee:     NewUserRef(t.Assignee),
		Replies:      make([]ReplyResponse, 0, len(t.Replies)),
		Attachments:  make([]AttachmentResponse, 0, len(t.Attachments)),
	}
	for i := range t.Replies {
		resp.Replies = append(resp.Replies, NewReplyResponse(&t.Replies[i]))
	}
	for i := range t.Attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(&t.Attachments[i]))
	}
	if ticketform.HasStructure(t.Message) {
		parsed := ticketform.Parse(t.Message)
		resp.FormDetails = &FormDetails{
			CustomerName:      parsed.CustomerName,
			CustomerEmail:     parsed.CustomerEmail,
			CustomerPhone:     parsed.CustomerPhone,
			PreferredContact:  parsed.PreferredContact,
			OrderNumber:       parsed.OrderNumber,
			IssueDate:         parsed.IssueDate,
			AdditionalDetails: parsed.AdditionalDetails,
		}
	}
	return resp
}

// NewTicketPageResponse converts a listing page.
func NewTicketPageResponse(page *service.TicketPage) TicketPageResponse {
	resp := TicketPageResponse{
		Success:    true,
		Tickets:    make([]TicketResponse, 0, len(page.Tickets)),
		Pagination: page.Pagination,
		Degraded:   page.Degraded,
	}
	for i := range page.Tickets {
		resp.Tickets = append(resp.Tickets, NewTicketResponse(&page.Tickets[i]))
	}
	return resp
}
