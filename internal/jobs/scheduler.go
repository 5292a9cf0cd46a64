package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"vitalpath/admin/internal/repository"
)

// Scheduler runs the retention jobs: expired sessions and stale login
// attempt counters are purged hourly. Security events are append-only and
// are never purged here.
type Scheduler struct {
	cron          *cron.Cron
	sessions      *repository.SessionRepository
	attempts      *repository.LoginAttemptRepository
	attemptWindow time.Duration
	log           zerolog.Logger
}

func NewScheduler(
	sessions *repository.SessionRepository,
	attempts *repository.LoginAttemptRepository,
	attemptWindow time.Duration,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		sessions:      sessions,
		attempts:      attempts,
		attemptWindow: attemptWindow,
		log:           log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 */1 * * *", s.purgeStaleAttempts); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs, but no longer than five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired sessions purged")
	}
}

func (s *Scheduler) purgeStaleAttempts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.attemptWindow)
	removed, err := s.attempts.DeleteStale(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("purge stale login attempts failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("stale login attempts purged")
	}
}
