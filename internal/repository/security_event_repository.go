package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vitalpath/admin/internal/models"
)

// SecurityEventRepository is append-only: there is deliberately no update or
// delete here, and the retention job never touches this table.
type SecurityEventRepository struct {
	pool *pgxpool.Pool
}

func NewSecurityEventRepository(pool *pgxpool.Pool) *SecurityEventRepository {
	return &SecurityEventRepository{pool: pool}
}

func (r *SecurityEventRepository) Insert(ctx context.Context, event models.SecurityEvent) error {
	const query = `
		INSERT INTO security_events (
			id, admin_id, kind, detail, ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.AdminID,
		event.Kind,
		event.Detail,
		event.IPAddress,
		event.UserAgent,
	)
	return err
}

func (r *SecurityEventRepository) ListRecent(ctx context.Context, limit, offset int) ([]models.SecurityEvent, error) {
	const query = `
		SELECT id, admin_id, kind, detail, ip_address, user_agent, created_at
		FROM security_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.SecurityEvent
	for rows.Next() {
		var event models.SecurityEvent
		if err := rows.Scan(
			&event.ID,
			&event.AdminID,
			&event.Kind,
			&event.Detail,
			&event.IPAddress,
			&event.UserAgent,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
