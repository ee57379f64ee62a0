package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// TicketFilter captures staff search parameters.
type TicketFilter struct {
	CustomerID *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Category   *domain.TicketCategory
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error)
	TouchActivity(ctx context.Context, id string, at time.Time) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (customer_id, subject, message, category, priority, status, assigned_to, last_activity)
        VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
        RETURNING id, last_activity, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.CustomerID,
		ticket.Subject,
		ticket.Message,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
	).Scan(&ticket.ID, &ticket.LastActivity, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET subject=$1, message=$2, category=$3, priority=$4, status=$5,
            assigned_to=$6, last_activity=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.Message,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		ticket.LastActivity,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, customer_id, subject, message, category, priority, status,
               assigned_to, last_activity, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.LastActivity,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET last_activity=$1, updated_at=NOW() WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(message) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, customer_id, subject, message, category, priority, status,
               assigned_to, last_activity, created_at, updated_at
        FROM tickets WHERE %s ORDER BY last_activity DESC LIMIT %d OFFSET %d`,
		where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerID,
			&ticket.Subject,
			&ticket.Message,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.AssignedTo,
			&ticket.LastActivity,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, ticket)
	}
	return result, total, rows.Err()
}
