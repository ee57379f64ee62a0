package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// ReplyRepository manages ticket thread replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *domain.Reply) error
	Update(ctx context.Context, reply *domain.Reply) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Reply, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error)
	CountStaffByTicket(ctx context.Context, ticketID string) (int64, error)
}

type replyRepository struct {
	pool *pgxpool.Pool
}

// NewReplyRepository builds repository.
func NewReplyRepository(pool *pgxpool.Pool) ReplyRepository {
	return &replyRepository{pool: pool}
}

func (r *replyRepository) Create(ctx context.Context, reply *domain.Reply) error {
	const query = `
        INSERT INTO ticket_replies (ticket_id, user_id, message, is_staff)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.UserID,
		reply.Message,
		reply.IsStaff,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *replyRepository) Update(ctx context.Context, reply *domain.Reply) error {
	const query = `
        UPDATE ticket_replies SET message=$1, edited_at=$2, edited_by=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		reply.Message,
		reply.EditedAt,
		reply.EditedBy,
		reply.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_replies WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id string) (*domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, user_id, message, is_staff, created_at, edited_at, edited_by
        FROM ticket_replies WHERE id=$1`
	var reply domain.Reply
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reply.ID,
		&reply.TicketID,
		&reply.UserID,
		&reply.Message,
		&reply.IsStaff,
		&reply.CreatedAt,
		&reply.EditedAt,
		&reply.EditedBy,
	); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, user_id, message, is_staff, created_at, edited_at, edited_by
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reply
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.UserID,
			&reply.Message,
			&reply.IsStaff,
			&reply.CreatedAt,
			&reply.EditedAt,
			&reply.EditedBy,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}

func (r *replyRepository) CountStaffByTicket(ctx context.Context, ticketID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ticket_replies WHERE ticket_id=$1 AND is_staff`, ticketID,
	).Scan(&count)
	return count, err
}
