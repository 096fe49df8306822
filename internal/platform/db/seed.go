package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empsync/internal/domain/auth"
	"empsync/internal/platform/config"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     string
	UserType string
}

// Seed creates the configured bootstrap accounts when they are missing. It is
// safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	users := []seedUser{
		{
			Username: cfg.SeedAdminUsername,
			Email:    cfg.SeedAdminEmail,
			Password: cfg.SeedAdminPassword,
			Name:     "Administrator",
			Role:     auth.RoleAdmin,
			UserType: auth.UserTypeAdmin,
		},
		{
			Username: cfg.SeedEmployeeUsername,
			Email:    cfg.SeedEmployeeEmail,
			Password: cfg.SeedEmployeePassword,
			Name:     "Employee",
			Role:     auth.RoleEmployee,
			UserType: auth.UserTypeEmployee,
		},
	}
	for _, u := range users {
		if strings.TrimSpace(u.Username) == "" {
			continue
		}
		if u.Password == "" {
			slog.Warn("seed user skipped, no password configured", "username", u.Username)
			continue
		}
		if err := ensureUser(ctx, pool, u); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u seedUser) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM users WHERE lower(username) = lower($1)", u.Username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	email := strings.TrimSpace(u.Email)
	if email == "" {
		email = strings.ToLower(u.Username) + "@empsync.local"
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, email, name, role, user_type, status, email_verified)
    VALUES ($1, $2, $3, $4, $5, $6, $7, true)
    ON CONFLICT DO NOTHING
  `, u.Username, hash, email, u.Name, u.Role, u.UserType, auth.StatusActive)
	if err != nil {
		return err
	}
	slog.Info("seed user created", "username", u.Username, "role", u.Role)
	return nil
}
