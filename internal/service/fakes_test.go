package service

import (
	"context"
	"time"

	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
)

type fakeAttemptStore struct {
	rows map[string]models.LoginAttempt
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{rows: make(map[string]models.LoginAttempt)}
}

func attemptKey(ipAddress, email string) string {
	return ipAddress + "|" + email
}

func (s *fakeAttemptStore) Get(_ context.Context, ipAddress, email string) (models.LoginAttempt, error) {
	attempt, ok := s.rows[attemptKey(ipAddress, email)]
	if !ok {
		return models.LoginAttempt{}, repository.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *fakeAttemptStore) Put(_ context.Context, attempt models.LoginAttempt) error {
	s.rows[attemptKey(attempt.IPAddress, attempt.Email)] = attempt
	return nil
}

func (s *fakeAttemptStore) Delete(_ context.Context, ipAddress, email string) error {
	delete(s.rows, attemptKey(ipAddress, email))
	return nil
}

type fakeEventStore struct {
	events []models.SecurityEvent
}

func (s *fakeEventStore) Insert(_ context.Context, event models.SecurityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *fakeEventStore) countKind(kind models.EventKind) int {
	n := 0
	for _, event := range s.events {
		if event.Kind == kind {
			n++
		}
	}
	return n
}

type fakeAdminStore struct {
	admins map[string]models.Admin // by id
}

func newFakeAdminStore(admins ...models.Admin) *fakeAdminStore {
	s := &fakeAdminStore{admins: make(map[string]models.Admin)}
	for _, admin := range admins {
		s.admins[admin.ID] = admin
	}
	return s
}

func (s *fakeAdminStore) FindByEmail(_ context.Context, email string) (models.Admin, error) {
	for _, admin := range s.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return models.Admin{}, repository.ErrAdminNotFound
}

func (s *fakeAdminStore) GetByID(_ context.Context, id string) (models.Admin, error) {
	admin, ok := s.admins[id]
	if !ok {
		return models.Admin{}, repository.ErrAdminNotFound
	}
	return admin, nil
}

func (s *fakeAdminStore) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	admin, ok := s.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	s.admins[id] = admin
	return nil
}

func (s *fakeAdminStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	admin, ok := s.admins[id]
	if !ok {
		return repository.ErrAdminNotFound
	}
	admin.LastLoginAt = &at
	s.admins[id] = admin
	return nil
}

type fakeSessionStore struct {
	sessions map[string]models.Session // by id
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]models.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, session models.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeSessionStore) RevokeAll(_ context.Context, adminID string) error {
	for id, session := range s.sessions {
		if session.AdminID == adminID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *fakeSessionStore) countByAdmin(adminID string) int {
	n := 0
	for _, session := range s.sessions {
		if session.AdminID == adminID {
			n++
		}
	}
	return n
}
