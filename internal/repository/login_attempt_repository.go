package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitalpath/admin/internal/models"
)

var ErrAttemptNotFound = errors.New("login attempt not found")

// LoginAttemptRepository persists the per-(IP, email) failure counters the
// login limiter reads. All window arithmetic lives in the limiter; this layer
// only stores rows.
type LoginAttemptRepository struct {
	pool *pgxpool.Pool
}

func NewLoginAttemptRepository(pool *pgxpool.Pool) *LoginAttemptRepository {
	return &LoginAttemptRepository{pool: pool}
}

func (r *LoginAttemptRepository) Get(ctx context.Context, ipAddress, email string) (models.LoginAttempt, error) {
	const query = `
		SELECT ip_address, email, attempts, last_attempt_at
		FROM login_attempts
		WHERE ip_address = $1 AND email = $2
	`

	row := r.pool.QueryRow(ctx, query, ipAddress, email)
	var attempt models.LoginAttempt
	if err := row.Scan(
		&attempt.IPAddress,
		&attempt.Email,
		&attempt.Attempts,
		&attempt.LastAttemptAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LoginAttempt{}, ErrAttemptNotFound
		}
		return models.LoginAttempt{}, err
	}
	return attempt, nil
}

// Put upserts the counter row for a pair.
func (r *LoginAttemptRepository) Put(ctx context.Context, attempt models.LoginAttempt) error {
	const query = `
		INSERT INTO login_attempts (ip_address, email, attempts, last_attempt_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ip_address, email)
		DO UPDATE SET
			attempts = EXCLUDED.attempts,
			last_attempt_at = EXCLUDED.last_attempt_at
	`

	_, err := r.pool.Exec(ctx, query,
		attempt.IPAddress,
		attempt.Email,
		attempt.Attempts,
		attempt.LastAttemptAt,
	)
	return err
}

func (r *LoginAttemptRepository) Delete(ctx context.Context, ipAddress, email string) error {
	const query = `DELETE FROM login_attempts WHERE ip_address = $1 AND email = $2`
	_, err := r.pool.Exec(ctx, query, ipAddress, email)
	return err
}

// DeleteStale removes rows whose last attempt is older than the cutoff.
// Storage hygiene only; the limiter resets expired windows lazily on read.
func (r *LoginAttemptRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM login_attempts WHERE last_attempt_at < $1`
	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
