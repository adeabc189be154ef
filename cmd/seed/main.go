// Command seed creates the database schema and the initial admin account.
// Admin credentials come from the ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD environment variables.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"storefront/config"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Seed failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Seed completed")
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return errors.Wrap(err, "failed to create PostgreSQL client")
	}

	if err := migrate(db); err != nil {
		return err
	}

	return seedAdmin(db, cfg)
}

func migrate(db *gorm.DB) error {
	// uuid_generate_v7() used by the model defaults comes from pg_uuidv7.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_uuidv7").Error; err != nil {
		return errors.Wrap(err, "failed to create pg_uuidv7 extension")
	}

	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.ProductModel{},
		&model.OrderModel{},
		&model.OrderItemModel{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		slog.Info("Admin credentials not set, skipping admin seed")
		return nil
	}

	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}

	admin := &model.UserModel{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
	}

	// Re-running the seed keeps the existing admin row untouched.
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(admin)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create admin user")
	}

	if result.RowsAffected == 0 {
		slog.Info("Admin user already exists", slog.String("email", email))
		return nil
	}

	slog.Info("Admin user created", slog.String("email", email), slog.String("id", fmt.Sprint(admin.ID)))

	return nil
}
