package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository exposes the count/aggregate queries backing the staff
// dashboard. Each method is one independent query so callers can fan them
// out concurrently.
type StatsRepository interface {
	CountUsersByRole(ctx context.Context) (map[string]int64, error)
	CountTicketsByStatus(ctx context.Context) (map[string]int64, error)
	CountTicketsByPriority(ctx context.Context) (map[string]int64, error)
	CountTicketsByCategory(ctx context.Context) (map[string]int64, error)
	CountOrdersByStatus(ctx context.Context) (map[string]int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOutOfStockProducts(ctx context.Context) (int64, error)
	AvgFirstResponseSeconds(ctx context.Context) (float64, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository constructs repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) groupedCount(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *statsRepository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	return r.groupedCount(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
}

func (r *statsRepository) CountTicketsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupedCount(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
}

func (r *statsRepository) CountTicketsByPriority(ctx context.Context) (map[string]int64, error) {
	return r.groupedCount(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
}

func (r *statsRepository) CountTicketsByCategory(ctx context.Context) (map[string]int64, error) {
	return r.groupedCount(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
}

func (r *statsRepository) CountOrdersByStatus(ctx context.Context) (map[string]int64, error) {
	return r.groupedCount(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
}

func (r *statsRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func (r *statsRepository) CountOutOfStockProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock <= 0`).Scan(&count)
	return count, err
}

// AvgFirstResponseSeconds averages, over tickets with at least one staff
// reply, the gap between ticket creation and the earliest staff reply.
func (r *statsRepository) AvgFirstResponseSeconds(ctx context.Context) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM first_reply - created_at)), 0)
        FROM (
            SELECT t.created_at, MIN(r.created_at) AS first_reply
            FROM tickets t
            JOIN ticket_replies r ON r.ticket_id = t.id AND r.is_staff
            GROUP BY t.id, t.created_at
        ) responded`
	var avg float64
	err := r.pool.QueryRow(ctx, query).Scan(&avg)
	return avg, err
}
