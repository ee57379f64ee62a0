package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
	DeleteByTicket(ctx context.Context, ticketID string) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, file_name, file_url, file_size, file_type)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, uploaded_at`
	return r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.FileName,
		attachment.FileURL,
		attachment.FileSize,
		attachment.FileType,
	).Scan(&attachment.ID, &attachment.UploadedAt)
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, file_url, file_size, file_type, uploaded_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY uploaded_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.FileName,
			&attachment.FileURL,
			&attachment.FileSize,
			&attachment.FileType,
			&attachment.UploadedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) DeleteByTicket(ctx context.Context, ticketID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ticket_attachments WHERE ticket_id=$1`, ticketID)
	return err
}
