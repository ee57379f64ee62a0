package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/events"
	"github.com/fashionfiesta/helpdesk/internal/repository"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// allowedAttachmentExts lists the upload types accepted on tickets.
var allowedAttachmentExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

const (
	maxSubjectLen       = 200
	myTicketsCacheTTL   = 10 * time.Minute
	myTicketsCachePrefx = "helpdesk:mytickets:"
)

// ValidateAttachmentFile checks an upload's name and size against the
// attachment policy before any bytes reach object storage.
func ValidateAttachmentFile(fileName string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedAttachmentExts[ext] {
		return apperrors.NewValidationError("file type not allowed (jpg, png, pdf, doc, docx, txt only)")
	}
	if maxSize > 0 && size > maxSize {
		return apperrors.NewValidationError("file exceeds the maximum allowed size")
	}
	return nil
}

// TicketService coordinates the support-ticket lifecycle: creation, reply
// threads, status flow, content edits and deletion.
type TicketService struct {
	tickets     repository.TicketRepository
	replies     repository.ReplyRepository
	attachments repository.AttachmentRepository
	users       repository.UserRepository
	cache       *redis.Client
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	ReplyRepo      repository.ReplyRepository
	AttachmentRepo repository.AttachmentRepository
	UserRepo       repository.UserRepository
	Cache          *redis.Client
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		replies:     deps.ReplyRepo,
		attachments: deps.AttachmentRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// AttachmentInput carries metadata of a file already written to object
// storage.
type AttachmentInput struct {
	FileName string
	FileURL  string
	FileSize int64
	FileType string
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Subject     string
	Message     string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Attachments []AttachmentInput
}

// UpdateTicketInput describes a partial content update. Nil fields are left
// untouched; a non-nil Attachments replaces the attachment list.
type UpdateTicketInput struct {
	Subject     *string
	Message     *string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
	Attachments *[]AttachmentInput
}

// StatusUpdateInput describes a staff status/assignment change.
type StatusUpdateInput struct {
	Status     *domain.TicketStatus
	AssignedTo *string
}

// ListFilter describes staff listing filters.
type ListFilter struct {
	Search   string
	Status   string
	Priority string
	Category string
	Page     int
	Limit    int
}

// Pagination describes a result page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// TicketPage is one page of tickets. Degraded marks results served from the
// cache because the primary store was unreachable.
type TicketPage struct {
	Tickets    []domain.Ticket `json:"tickets"`
	Pagination Pagination      `json:"pagination"`
	Degraded   bool            `json:"degraded,omitempty"`
}

func newPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// CreateTicket opens a ticket for a customer. Attachments must already be
// uploaded; their metadata is persisted alongside the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, customer *domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)
	if subject == "" || message == "" {
		return nil, apperrors.NewValidationError("subject and message are required")
	}
	if utf8.RuneCountInString(subject) > maxSubjectLen {
		return nil, apperrors.NewValidationError("subject must be at most 200 characters")
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category")
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority")
	}

	ticket := &domain.Ticket{
		CustomerID: customer.ID,
		Subject:    subject,
		Message:    message,
		Category:   category,
		Priority:   priority,
		Status:     domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, att := range input.Attachments {
		record := &domain.Attachment{
			TicketID: ticket.ID,
			FileName: att.FileName,
			FileURL:  att.FileURL,
			FileSize: att.FileSize,
			FileType: att.FileType,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.Attachments = append(ticket.Attachments, *record)
	}

	ticket.Customer = customer
	ticket.Replies = []domain.Reply{}

	s.publish(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  customer.ID,
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListCustomerTickets returns the customer's tickets newest-activity-first.
// When the primary store is unreachable it falls back to the last cached
// page for the same account, marked Degraded.
func (s *TicketService) ListCustomerTickets(ctx context.Context, customer *domain.User, page, limit int) (*TicketPage, error) {
	page, limit = normalizePage(page, limit)
	filter := repository.TicketFilter{
		CustomerID: &customer.ID,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		if cached := s.cachedTicketPage(ctx, customer.ID, page, limit); cached != nil {
			s.logger.Warn("serving my-tickets from cache; primary store unavailable",
				zap.String("customer_id", customer.ID), zap.Error(err))
			cached.Degraded = true
			return cached, nil
		}
		return nil, apperrors.NewDependencyError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}

	if err := s.populateTickets(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &TicketPage{Tickets: tickets, Pagination: newPagination(page, limit, total)}
	s.storeTicketPage(ctx, customer.ID, page, limit, result)
	return result, nil
}

// ListAllTickets returns the staff view: all tickets matching the filter,
// customer and assignee populated.
func (s *TicketService) ListAllTickets(ctx context.Context, staff *domain.User, filter ListFilter) (*TicketPage, error) {
	if !staff.IsStaff() {
		return nil, apperrors.NewForbidden("staff access required")
	}
	page, limit := normalizePage(filter.Page, filter.Limit)

	repoFilter := repository.TicketFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if filter.Search != "" {
		search := filter.Search
		repoFilter.SearchTerm = &search
	}
	if filter.Status != "" {
		status := domain.TicketStatus(filter.Status)
		if !domain.ValidStatus(status) {
			return nil, apperrors.NewValidationError("unknown status filter")
		}
		repoFilter.Status = &status
	}
	if filter.Priority != "" {
		priority := domain.TicketPriority(filter.Priority)
		if !domain.ValidPriority(priority) {
			return nil, apperrors.NewValidationError("unknown priority filter")
		}
		repoFilter.Priority = &priority
	}
	if filter.Category != "" {
		category := domain.TicketCategory(filter.Category)
		if !domain.ValidCategory(category) {
			return nil, apperrors.NewValidationError("unknown category filter")
		}
		repoFilter.Category = &category
	}

	tickets, total, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewDependencyError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	if err := s.populateTickets(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketPage{Tickets: tickets, Pagination: newPagination(page, limit, total)}, nil
}

// GetTicket fetches one ticket with replies and attachments. Not-found and
// access-denied are distinct errors; existence is checked first.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != actor.ID && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}
	if err := s.loadThread(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// AddReply appends a reply to the thread. A staff reply advances an Open
// ticket to In Progress, claims the ticket if unassigned, and triggers a
// customer notification without blocking the caller.
func (s *TicketService) AddReply(ctx context.Context, actor *domain.User, ticketID, message string) (*domain.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("reply message is required")
	}

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != actor.ID && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}

	reply := &domain.Reply{
		TicketID: ticket.ID,
		UserID:   actor.ID,
		Message:  message,
		IsStaff:  actor.IsStaff(),
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	ticket.LastActivity = now
	if actor.IsStaff() {
		if ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusInProgress
		}
		if ticket.AssignedTo == nil {
			id := actor.ID
			ticket.AssignedTo = &id
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	} else if err := s.tickets.TouchActivity(ctx, ticket.ID, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	if actor.IsStaff() {
		notifTicket := *ticket
		if customer, err := s.users.GetByID(ctx, ticket.CustomerID); err == nil {
			notifTicket.Customer = customer
		} else {
			s.logger.Warn("could not load customer for reply notification",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
		s.publish(events.Event{
			Type:     events.EventStaffReplied,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload: events.StaffRepliedPayload{
				Ticket: &notifTicket,
				Reply:  reply,
				Staff:  actor,
			},
		})
	}

	if err := s.loadThread(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// EditReply updates a staff reply's message. Preconditions are checked in a
// fixed order so each failure mode yields its own error: the reply must
// exist on the ticket, the actor must be staff, the target must be a staff
// reply, and non-admins may only edit their own replies.
func (s *TicketService) EditReply(ctx context.Context, actor *domain.User, ticketID, replyID, message string) (*domain.Reply, error) {
	reply, err := s.fetchReply(ctx, ticketID, replyID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff access required")
	}
	if !reply.IsStaff {
		return nil, apperrors.NewForbidden("only staff replies can be edited")
	}
	if reply.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("you can only edit your own replies")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("reply message is required")
	}

	now := time.Now()
	editor := actor.ID
	reply.Message = message
	reply.EditedAt = &now
	reply.EditedBy = &editor
	if err := s.replies.Update(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.tickets.TouchActivity(ctx, ticketID, now); err != nil {
		return nil, apperrors.MapError(err)
	}
	return reply, nil
}

// DeleteReply removes a staff reply. Same precondition order as EditReply.
func (s *TicketService) DeleteReply(ctx context.Context, actor *domain.User, ticketID, replyID string) error {
	reply, err := s.fetchReply(ctx, ticketID, replyID)
	if err != nil {
		return err
	}
	if !actor.IsStaff() {
		return apperrors.NewForbidden("staff access required")
	}
	if !reply.IsStaff {
		return apperrors.NewForbidden("only staff replies can be deleted")
	}
	if reply.UserID != actor.ID && !actor.IsAdmin() {
		return apperrors.NewForbidden("you can only delete your own replies")
	}

	if err := s.replies.Delete(ctx, reply.ID); err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.tickets.TouchActivity(ctx, ticketID, time.Now()))
}

// UpdateStatus applies a staff status and/or assignment change. Staff may
// move status in either direction; lastActivity is refreshed only when the
// status actually changes.
func (s *TicketService) UpdateStatus(ctx context.Context, staff *domain.User, ticketID string, input StatusUpdateInput) (*domain.Ticket, error) {
	if !staff.IsStaff() {
		return nil, apperrors.NewForbidden("staff access required")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	oldStatus := ticket.Status
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status")
		}
		if *input.Status != ticket.Status {
			ticket.Status = *input.Status
			statusChanged = true
		}
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			ticket.AssignedTo = nil
		} else {
			if _, err := s.users.GetByID(ctx, *input.AssignedTo); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, apperrors.NewNotFound("assignee")
				}
				return nil, apperrors.MapError(err)
			}
			id := *input.AssignedTo
			ticket.AssignedTo = &id
		}
	}

	if statusChanged {
		ticket.LastActivity = time.Now()
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if statusChanged {
		s.publish(events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  staff.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}

	if err := s.loadThread(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateContent applies a partial edit to the ticket's fields. Once staff
// have responded, the owning customer may only touch attachments; staff may
// edit anything.
func (s *TicketService) UpdateContent(ctx context.Context, actor *domain.User, ticketID string, input UpdateTicketInput) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != actor.ID && !actor.IsStaff() {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}

	touchesContent := input.Subject != nil || input.Message != nil || input.Category != nil || input.Priority != nil
	if touchesContent && !actor.IsStaff() {
		staffReplies, err := s.replies.CountStaffByTicket(ctx, ticket.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if staffReplies > 0 {
			return nil, apperrors.NewValidationError("cannot edit ticket after staff has responded; only attachments may be updated")
		}
	}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewValidationError("subject cannot be empty")
		}
		if utf8.RuneCountInString(subject) > maxSubjectLen {
			return nil, apperrors.NewValidationError("subject must be at most 200 characters")
		}
		ticket.Subject = subject
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			return nil, apperrors.NewValidationError("message cannot be empty")
		}
		ticket.Message = message
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return nil, apperrors.NewValidationError("unknown category")
		}
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority")
		}
		ticket.Priority = *input.Priority
	}

	if input.Attachments != nil {
		if err := s.attachments.DeleteByTicket(ctx, ticket.ID); err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, att := range *input.Attachments {
			record := &domain.Attachment{
				TicketID: ticket.ID,
				FileName: att.FileName,
				FileURL:  att.FileURL,
				FileSize: att.FileSize,
				FileType: att.FileType,
			}
			if err := s.attachments.Create(ctx, record); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
	}

	ticket.LastActivity = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.loadThread(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// DeleteTicket removes a ticket. The owning customer may delete only while
// no staff member has replied; staff may always delete.
func (s *TicketService) DeleteTicket(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	if !actor.IsStaff() {
		if ticket.CustomerID != actor.ID {
			return apperrors.NewForbidden("you do not have access to this ticket")
		}
		staffReplies, err := s.replies.CountStaffByTicket(ctx, ticket.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if staffReplies > 0 {
			return apperrors.NewForbidden("cannot delete a ticket with staff responses")
		}
	}

	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
	})
	return nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) fetchReply(ctx context.Context, ticketID, replyID string) (*domain.Reply, error) {
	reply, err := s.replies.GetByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("reply")
		}
		return nil, apperrors.MapError(err)
	}
	if reply.TicketID != ticketID {
		return nil, apperrors.NewNotFound("reply")
	}
	return reply, nil
}

// loadThread fills replies, attachments and related users onto the ticket.
func (s *TicketService) loadThread(ctx context.Context, ticket *domain.Ticket) error {
	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if replies == nil {
		replies = []domain.Reply{}
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return err
	}

	ids := []string{ticket.CustomerID}
	if ticket.AssignedTo != nil {
		ids = append(ids, *ticket.AssignedTo)
	}
	for i := range replies {
		ids = append(ids, replies[i].UserID)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	ticket.Customer = users[ticket.CustomerID]
	if ticket.AssignedTo != nil {
		ticket.Assignee = users[*ticket.AssignedTo]
	}
	for i := range replies {
		replies[i].Author = users[replies[i].UserID]
	}
	ticket.Replies = replies
	ticket.Attachments = attachments
	return nil
}

// populateTickets fills customer and assignee references on a listing page.
func (s *TicketService) populateTickets(ctx context.Context, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	var ids []string
	for i := range tickets {
		ids = append(ids, tickets[i].CustomerID)
		if tickets[i].AssignedTo != nil {
			ids = append(ids, *tickets[i].AssignedTo)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range tickets {
		tickets[i].Customer = users[tickets[i].CustomerID]
		if tickets[i].AssignedTo != nil {
			tickets[i].Assignee = users[*tickets[i].AssignedTo]
		}
	}
	return nil
}

func (s *TicketService) publish(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(context.Background(), event)
}

func (s *TicketService) cacheKey(customerID string, page, limit int) string {
	return myTicketsCachePrefx + customerID + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}

func (s *TicketService) cachedTicketPage(ctx context.Context, customerID string, page, limit int) *TicketPage {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(customerID, page, limit)).Bytes()
	if err != nil {
		return nil
	}
	var cached TicketPage
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *TicketService) storeTicketPage(ctx context.Context, customerID string, page, limit int, result *TicketPage) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(customerID, page, limit), raw, myTicketsCacheTTL).Err(); err != nil {
		s.logger.Debug("could not cache ticket page", zap.Error(err))
	}
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
