package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"github.com/oksasatya/marketplace-api/config"
	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	pginfra "github.com/oksasatya/marketplace-api/internal/infrastructure/postgres"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

// seed creates the bootstrap admin account from ADMIN_* settings.
// Running it again leaves an existing account untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != entity.RoleAdmin {
			log.Fatalf("%s exists with role %s; refusing to promote", email, existing.Role)
		}
		logger.WithField("user_id", existing.ID).Info("admin already exists")
		return
	case !errors.Is(err, repo.ErrNotFound):
		log.Fatalf("lookup admin: %v", err)
	}

	hash, err := helpers.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := &entity.User{
		Name:       cfg.AdminName,
		Email:      email,
		Password:   hash,
		Phone:      cfg.AdminPhone,
		Address:    entity.Address{}.WithDefaults(),
		Role:       entity.RoleAdmin,
		IsVerified: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithField("user_id", admin.ID).WithField("email", admin.Email).Info("admin created")
}
