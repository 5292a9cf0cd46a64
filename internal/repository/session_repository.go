package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitalpath/admin/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (
			id, admin_id, token, expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.AdminID,
		session.Token,
		session.ExpiresAt,
	)
	return err
}

// GetByToken returns the live session for a token. Expired rows are treated
// as absent even before the retention job removes them.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (models.Session, error) {
	const query = `
		SELECT id, admin_id, token, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > NOW()
	`

	row := r.pool.QueryRow(ctx, query, token)
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.AdminID,
		&session.Token,
		&session.ExpiresAt,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) CountByAdmin(ctx context.Context, adminID string) (int, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE admin_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, adminID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RevokeOne removes a single session. Not reachable from the HTTP surface
// today; kept alongside RevokeAll so future callers can pick either.
func (r *SessionRepository) RevokeOne(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM sessions WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RevokeAll deletes every session for an admin, forcing re-authentication on
// all devices at once.
func (r *SessionRepository) RevokeAll(ctx context.Context, adminID string) error {
	const query = `DELETE FROM sessions WHERE admin_id = $1`
	_, err := r.pool.Exec(ctx, query, adminID)
	return err
}

// DeleteExpired is retention hygiene only; GetByToken already ignores
// expired rows.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
