package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
)

// RateLimitKey scopes brute-force tracking to a single client attacking a
// single account. A distributed attack on one account is only partially
// covered; that trade-off is intentional.
type RateLimitKey struct {
	IPAddress string
	Email     string
}

type LimitStatus struct {
	Allowed     bool
	WaitMinutes int
}

type AttemptStore interface {
	Get(ctx context.Context, ipAddress, email string) (models.LoginAttempt, error)
	Put(ctx context.Context, attempt models.LoginAttempt) error
	Delete(ctx context.Context, ipAddress, email string) error
}

type EventStore interface {
	Insert(ctx context.Context, event models.SecurityEvent) error
}

// LoginLimiter enforces the failed-login cool-down per (client IP, email)
// pair. State lives in the database; window expiry is recomputed lazily on
// each access rather than swept in the background.
type LoginLimiter struct {
	attempts  AttemptStore
	events    EventStore
	threshold int
	window    time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewLoginLimiter(attempts AttemptStore, events EventStore, threshold int, window time.Duration, log zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{
		attempts:  attempts,
		events:    events,
		threshold: threshold,
		window:    window,
		log:       log,
		now:       time.Now,
	}
}

// Check must run before any credential verification. A denied result means
// the caller rejects the request without touching the credential store.
func (l *LoginLimiter) Check(ctx context.Context, key RateLimitKey) (LimitStatus, error) {
	attempt, err := l.attempts.Get(ctx, key.IPAddress, key.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return LimitStatus{Allowed: true}, nil
		}
		return LimitStatus{}, err
	}

	now := l.now()
	windowEnd := attempt.LastAttemptAt.Add(l.window)

	// Expired window: the pair is clean again regardless of the stored count.
	if !now.Before(windowEnd) {
		return LimitStatus{Allowed: true}, nil
	}

	if attempt.Attempts < l.threshold {
		return LimitStatus{Allowed: true}, nil
	}

	wait := int((windowEnd.Sub(now) + time.Minute - 1) / time.Minute)
	if wait < 1 {
		wait = 1
	}
	return LimitStatus{Allowed: false, WaitMinutes: wait}, nil
}

// Record updates the counter and writes the audit event. Event writes happen
// here so audit completeness never depends on the HTTP response making it
// back to the client.
func (l *LoginLimiter) Record(ctx context.Context, key RateLimitKey, success bool, adminID *string, userAgent, detail string) error {
	if success {
		if err := l.attempts.Delete(ctx, key.IPAddress, key.Email); err != nil {
			return err
		}
		return l.logEvent(ctx, models.EventLogin, adminID, key, userAgent, detail)
	}

	now := l.now()
	attempt, err := l.attempts.Get(ctx, key.IPAddress, key.Email)
	switch {
	case errors.Is(err, repository.ErrAttemptNotFound):
		attempt = models.LoginAttempt{IPAddress: key.IPAddress, Email: key.Email}
	case err != nil:
		return err
	case !now.Before(attempt.LastAttemptAt.Add(l.window)):
		// Stale row: the new failure starts a fresh window.
		attempt.Attempts = 0
	}

	attempt.Attempts++
	attempt.LastAttemptAt = now

	if err := l.attempts.Put(ctx, attempt); err != nil {
		return err
	}
	return l.logEvent(ctx, models.EventFailedLogin, adminID, key, userAgent, detail)
}

func (l *LoginLimiter) logEvent(ctx context.Context, kind models.EventKind, adminID *string, key RateLimitKey, userAgent, detail string) error {
	event := models.SecurityEvent{
		ID:        ids.New(),
		AdminID:   adminID,
		Kind:      kind,
		Detail:    detail,
		IPAddress: key.IPAddress,
		UserAgent: userAgent,
	}
	if err := l.events.Insert(ctx, event); err != nil {
		l.log.Error().Err(err).Str("kind", string(kind)).Msg("security event write failed")
		return err
	}
	return nil
}
