// Seeds the permission catalog, the super admin role and an initial admin
// account. Safe to run repeatedly: every statement is an upsert.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/arcadia-mall/arcadia-admin/internal/app"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var catalog []string
	catalog = append(catalog, shared.CoreScopes()...)
	catalog = append(catalog, shared.ContentScopes()...)
	catalog = append(catalog, shared.SiteScopes()...)

	for _, name := range catalog {
		module, action, _ := strings.Cut(name, ".")
		_, err := pool.Exec(ctx,
			`INSERT INTO permissions (name, description) VALUES ($1, $2)
			 ON CONFLICT ON CONSTRAINT permissions_name_key DO NOTHING`,
			name, action+" access for the "+module+" module")
		if err != nil {
			logger.Error("seed permission", slog.String("name", name), slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("permission catalog seeded", slog.Int("count", len(catalog)))

	var roleID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO roles (slug, name, description) VALUES ($1, 'Super Admin', 'Full access to every module')
		 ON CONFLICT ON CONSTRAINT roles_slug_key DO UPDATE SET updated_at = NOW()
		 RETURNING id`,
		shared.SuperAdminRole,
	).Scan(&roleID)
	if err != nil {
		logger.Error("seed super admin role", slog.Any("error", err))
		os.Exit(1)
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash admin password", slog.Any("error", err))
		os.Exit(1)
	}

	var userID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, name, password_hash) VALUES ($1, 'Administrator', $2)
		 ON CONFLICT ON CONSTRAINT admin_users_email_key
		 DO UPDATE SET password_hash = EXCLUDED.password_hash, is_active = TRUE, updated_at = NOW()
		 RETURNING id`,
		strings.ToLower(strings.TrimSpace(email)), string(hash),
	).Scan(&userID)
	if err != nil {
		logger.Error("seed admin user", slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, roleID); err != nil {
		logger.Error("attach super admin role", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("admin account ready", slog.String("email", email))
}
