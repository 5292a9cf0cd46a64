package config

import (
	"errors"
	"testing"
	"time"
)

func baseConfig() AppConfig {
	return AppConfig{
		Environment: "development",
		Security: SecurityConfig{
			TokenTTL:         168 * time.Hour,
			CookieName:       "admin-token",
			LockoutThreshold: 5,
			LockoutWindow:    15 * time.Minute,
		},
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"

	if err := cfg.validate(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("got %v, want %v", err, ErrMissingJWTSecret)
	}
}

func TestValidateDevelopmentFallsBackToDevSecret(t *testing.T) {
	cfg := baseConfig()

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if cfg.Security.JWTSecret != devJWTSecret {
		t.Fatalf("expected dev secret fallback, got %q", cfg.Security.JWTSecret)
	}
}

func TestValidateKeepsConfiguredSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.Environment = "production"
	cfg.Security.JWTSecret = "configured"

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if cfg.Security.JWTSecret != "configured" {
		t.Fatalf("secret overwritten: %q", cfg.Security.JWTSecret)
	}
}

func TestValidateRejectsBadLockoutSettings(t *testing.T) {
	cfg := baseConfig()
	cfg.Security.LockoutThreshold = 0
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error for zero threshold")
	}

	cfg = baseConfig()
	cfg.Security.LockoutWindow = 0
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error for zero window")
	}
}
