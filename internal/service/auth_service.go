package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vitalpath/admin/internal/config"
	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/security"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountDisabled         = errors.New("account disabled")
	ErrWrongCurrentPassword    = errors.New("current password incorrect")
	ErrPasswordConfirmMismatch = errors.New("new password and confirmation do not match")
)

// RateLimitedError carries the remaining cool-down so handlers can render
// the contractual 429 message.
type RateLimitedError struct {
	WaitMinutes int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("Too many login attempts. Please try again in %d minutes.", e.WaitMinutes)
}

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	GetByID(ctx context.Context, id string) (models.Admin, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	RevokeAll(ctx context.Context, adminID string) error
}

type AuthService struct {
	admins   AdminStore
	sessions SessionStore
	limiter  *LoginLimiter
	events   EventStore
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	admins AdminStore,
	sessions SessionStore,
	limiter *LoginLimiter,
	events EventStore,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		admins:   admins,
		sessions: sessions,
		limiter:  limiter,
		events:   events,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	Admin     models.Admin
	Token     string
	ExpiresAt time.Time
}

// Login runs the full credential flow: rate limit first, then lookup, then
// password. Unknown email and wrong password take the same failure path so
// the response never reveals whether an account exists.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	key := RateLimitKey{IPAddress: input.IPAddress, Email: email}

	status, err := s.limiter.Check(ctx, key)
	if err != nil {
		return LoginResult{}, err
	}
	if !status.Allowed {
		return LoginResult{}, &RateLimitedError{WaitMinutes: status.WaitMinutes}
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			if recErr := s.limiter.Record(ctx, key, false, nil, input.UserAgent, "unknown email"); recErr != nil {
				return LoginResult{}, recErr
			}
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	// Disabled accounts count against the limiter too, so login cannot be
	// used as an account-enumeration oracle.
	if !admin.IsActive {
		if recErr := s.limiter.Record(ctx, key, false, &admin.ID, input.UserAgent, "account disabled"); recErr != nil {
			return LoginResult{}, recErr
		}
		return LoginResult{}, ErrAccountDisabled
	}

	if !security.VerifyPassword(input.Password, admin.PasswordHash) {
		if recErr := s.limiter.Record(ctx, key, false, &admin.ID, input.UserAgent, "wrong password"); recErr != nil {
			return LoginResult{}, recErr
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := s.limiter.Record(ctx, key, true, &admin.ID, input.UserAgent, "login succeeded"); err != nil {
		return LoginResult{}, err
	}

	identity := security.Identity{AdminID: admin.ID, Email: admin.Email, Role: admin.Role}
	token, err := security.IssueToken(s.cfg.Security.JWTSecret, identity, s.cfg.Security.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.Security.TokenTTL)

	session := models.Session{
		ID:        ids.New(),
		AdminID:   admin.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, err
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.log.Error().Err(err).Str("admin_id", admin.ID).Msg("last login update failed")
	}
	lastLogin := now
	admin.LastLoginAt = &lastLogin

	return LoginResult{
		Admin:     admin,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

type ChangePasswordInput struct {
	AdminID         string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
	IPAddress       string
	UserAgent       string
}

// ChangePassword verifies the current password against a freshly loaded
// account (never a client-submitted id), then rotates the hash and revokes
// every session for the admin, including the one making the request.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordConfirmMismatch
	}
	if err := security.CheckPasswordStrength(input.NewPassword); err != nil {
		return err
	}

	admin, err := s.admins.GetByID(ctx, input.AdminID)
	if err != nil {
		return err
	}

	if !security.VerifyPassword(input.CurrentPassword, admin.PasswordHash) {
		event := models.SecurityEvent{
			ID:        ids.New(),
			AdminID:   &admin.ID,
			Kind:      models.EventFailedPasswordChange,
			Detail:    "current password verification failed",
			IPAddress: input.IPAddress,
			UserAgent: input.UserAgent,
		}
		if insErr := s.events.Insert(ctx, event); insErr != nil {
			return insErr
		}
		return ErrWrongCurrentPassword
	}

	hash, err := security.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}

	if err := s.sessions.RevokeAll(ctx, admin.ID); err != nil {
		return err
	}

	event := models.SecurityEvent{
		ID:        ids.New(),
		AdminID:   &admin.ID,
		Kind:      models.EventPasswordChange,
		Detail:    "password changed, all sessions revoked",
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		return err
	}

	return nil
}
