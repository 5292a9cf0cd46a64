// Command bootstrap seeds the first SUPER_ADMIN account. It refuses to run
// once any admin exists, so it is safe to keep in deployment scripts.
package main

import (
	"context"
	"strings"
	"time"

	"vitalpath/admin/internal/config"
	"vitalpath/admin/internal/database"
	"vitalpath/admin/internal/ids"
	"vitalpath/admin/internal/log"
	"vitalpath/admin/internal/models"
	"vitalpath/admin/internal/repository"
	"vitalpath/admin/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	email := strings.TrimSpace(strings.ToLower(cfg.Bootstrap.Email))
	if email == "" || cfg.Bootstrap.Password == "" {
		logger.Fatal().Msg("bootstrap email and password must be configured")
	}

	if err := security.CheckPasswordStrength(cfg.Bootstrap.Password); err != nil {
		logger.Fatal().Err(err).Msg("bootstrap password rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	admins := repository.NewAdminRepository(dbPool)

	count, err := admins.Count(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("count admins failed")
	}
	if count > 0 {
		logger.Info().Int("admins", count).Msg("admins already exist, nothing to do")
		return
	}

	hash, err := security.HashPassword(cfg.Bootstrap.Password)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password failed")
	}

	admin := models.Admin{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    cfg.Bootstrap.FirstName,
		LastName:     cfg.Bootstrap.LastName,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := admins.Create(ctx, admin); err != nil {
		logger.Fatal().Err(err).Msg("create bootstrap admin failed")
	}

	logger.Info().Str("email", admin.Email).Msg("bootstrap admin created")
}
