package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// In-memory repository implementations. These back the service tests and
// stand in for the placeholder data set the original app fell back to when
// its store was unreachable.

// MemoryStore bundles the in-memory repositories over one shared data set.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	tickets     map[string]domain.Ticket
	replies     map[string]domain.Reply
	attachments map[string]domain.Attachment
	orders      map[string]domain.Order
	products    map[string]domain.Product
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		tickets:     make(map[string]domain.Ticket),
		replies:     make(map[string]domain.Reply),
		attachments: make(map[string]domain.Attachment),
		orders:      make(map[string]domain.Order),
		products:    make(map[string]domain.Product),
	}
}

// Users returns a UserRepository view over the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepo{store: s} }

// Tickets returns a TicketRepository view over the store.
func (s *MemoryStore) Tickets() TicketRepository { return &memoryTicketRepo{store: s} }

// Replies returns a ReplyRepository view over the store.
func (s *MemoryStore) Replies() ReplyRepository { return &memoryReplyRepo{store: s} }

// Attachments returns an AttachmentRepository view over the store.
func (s *MemoryStore) Attachments() AttachmentRepository { return &memoryAttachmentRepo{store: s} }

// Stats returns a StatsRepository view over the store.
func (s *MemoryStore) Stats() StatsRepository { return &memoryStatsRepo{store: s} }

// SeedOrder inserts an order directly, for tests and fixtures.
func (s *MemoryStore) SeedOrder(order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	s.orders[order.ID] = order
}

// SeedProduct inserts a product directly, for tests and fixtures.
func (s *MemoryStore) SeedProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	s.products[product.ID] = product
}

type memoryUserRepo struct {
	store *MemoryStore
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = uuid.NewString()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			u := user
			result[id] = &u
		}
	}
	return result, nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type memoryTicketRepo struct {
	store *MemoryStore
}

func (r *memoryTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket.ID = uuid.NewString()
	now := time.Now()
	ticket.LastActivity = now
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	stored.Replies = nil
	stored.Attachments = nil
	stored.Customer = nil
	stored.Assignee = nil
	r.store.tickets[ticket.ID] = stored
	return nil
}

func (r *memoryTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Subject = ticket.Subject
	existing.Message = ticket.Message
	existing.Category = ticket.Category
	existing.Priority = ticket.Priority
	existing.Status = ticket.Status
	existing.AssignedTo = ticket.AssignedTo
	existing.LastActivity = ticket.LastActivity
	existing.UpdatedAt = time.Now()
	r.store.tickets[ticket.ID] = existing
	return nil
}

func (r *memoryTicketRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.tickets, id)
	for replyID, reply := range r.store.replies {
		if reply.TicketID == id {
			delete(r.store.replies, replyID)
		}
	}
	for attID, att := range r.store.attachments {
		if att.TicketID == id {
			delete(r.store.attachments, attID)
		}
	}
	return nil
}

func (r *memoryTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memoryTicketRepo) TouchActivity(_ context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.LastActivity = at
	ticket.UpdatedAt = time.Now()
	r.store.tickets[id] = ticket
	return nil
}

func (r *memoryTicketRepo) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []domain.Ticket
	for _, ticket := range r.store.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if term != "" &&
				!strings.Contains(strings.ToLower(ticket.Subject), term) &&
				!strings.Contains(strings.ToLower(ticket.Message), term) {
				continue
			}
		}
		matched = append(matched, ticket)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LastActivity.After(matched[j].LastActivity)
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Ticket{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memoryReplyRepo struct {
	store *MemoryStore
}

func (r *memoryReplyRepo) Create(_ context.Context, reply *domain.Reply) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reply.ID = uuid.NewString()
	reply.CreatedAt = time.Now()
	stored := *reply
	stored.Author = nil
	r.store.replies[reply.ID] = stored
	return nil
}

func (r *memoryReplyRepo) Update(_ context.Context, reply *domain.Reply) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.replies[reply.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Message = reply.Message
	existing.EditedAt = reply.EditedAt
	existing.EditedBy = reply.EditedBy
	r.store.replies[reply.ID] = existing
	return nil
}

func (r *memoryReplyRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.replies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.replies, id)
	return nil
}

func (r *memoryReplyRepo) GetByID(_ context.Context, id string) (*domain.Reply, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	reply, ok := r.store.replies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &reply, nil
}

func (r *memoryReplyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Reply, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Reply
	for _, reply := range r.store.replies {
		if reply.TicketID == ticketID {
			result = append(result, reply)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *memoryReplyRepo) CountStaffByTicket(_ context.Context, ticketID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, reply := range r.store.replies {
		if reply.TicketID == ticketID && reply.IsStaff {
			count++
		}
	}
	return count, nil
}

type memoryAttachmentRepo struct {
	store *MemoryStore
}

func (r *memoryAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	attachment.ID = uuid.NewString()
	attachment.UploadedAt = time.Now()
	r.store.attachments[attachment.ID] = *attachment
	return nil
}

func (r *memoryAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []domain.Attachment
	for _, att := range r.store.attachments {
		if att.TicketID == ticketID {
			result = append(result, att)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UploadedAt.Before(result[j].UploadedAt) })
	return result, nil
}

func (r *memoryAttachmentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, att := range r.store.attachments {
		if att.TicketID == ticketID {
			delete(r.store.attachments, id)
		}
	}
	return nil
}

type memoryStatsRepo struct {
	store *MemoryStore
}

func (r *memoryStatsRepo) CountUsersByRole(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]int64)
	for _, user := range r.store.users {
		result[string(user.Role)]++
	}
	return result, nil
}

func (r *memoryStatsRepo) CountTicketsByStatus(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]int64)
	for _, ticket := range r.store.tickets {
		result[string(ticket.Status)]++
	}
	return result, nil
}

func (r *memoryStatsRepo) CountTicketsByPriority(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]int64)
	for _, ticket := range r.store.tickets {
		result[string(ticket.Priority)]++
	}
	return result, nil
}

func (r *memoryStatsRepo) CountTicketsByCategory(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]int64)
	for _, ticket := range r.store.tickets {
		result[string(ticket.Category)]++
	}
	return result, nil
}

func (r *memoryStatsRepo) CountOrdersByStatus(_ context.Context) (map[string]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make(map[string]int64)
	for _, order := range r.store.orders {
		result[string(order.Status)]++
	}
	return result, nil
}

func (r *memoryStatsRepo) CountProducts(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.products)), nil
}

func (r *memoryStatsRepo) CountOutOfStockProducts(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, product := range r.store.products {
		if product.Stock <= 0 {
			count++
		}
	}
	return count, nil
}

func (r *memoryStatsRepo) AvgFirstResponseSeconds(_ context.Context) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var sum float64
	var responded int
	for _, ticket := range r.store.tickets {
		var first *time.Time
		for _, reply := range r.store.replies {
			if reply.TicketID != ticket.ID || !reply.IsStaff {
				continue
			}
			if first == nil || reply.CreatedAt.Before(*first) {
				t := reply.CreatedAt
				first = &t
			}
		}
		if first != nil {
			sum += first.Sub(ticket.CreatedAt).Seconds()
			responded++
		}
	}
	if responded == 0 {
		return 0, nil
	}
	return sum / float64(responded), nil
}
