package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id::text, username, password_hash, email, name, role, user_type, department, position,
  phone_number, employee_ref, status, email_verified, verification_sent_at, last_login, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Name, &u.Role, &u.UserType, &u.Department, &u.Position,
		&u.PhoneNumber, &u.EmployeeRef, &u.Status, &u.EmailVerified, &u.VerificationSentAt, &u.LastLogin,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) FindByLogin(ctx context.Context, login string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE lower(username) = lower($1) OR lower(email) = lower($1)
    ORDER BY (lower(username) = lower($1)) DESC
    LIMIT 1
  `, login))
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id::text = $1`, id))
}

func (s *Store) Create(ctx context.Context, u User) (User, error) {
	created, err := scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, email, name, role, user_type, department, position,
      phone_number, employee_ref, status, email_verified)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.Email, u.Name, u.Role, u.UserType, u.Department, u.Position,
		u.PhoneNumber, u.EmployeeRef, u.Status, u.EmailVerified))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_username_key" {
				return User{}, ErrUsernameTaken
			}
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (s *Store) exists(ctx context.Context, column, value string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE lower(`+column+`) = lower($1)`, value).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username", username)
}

func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email", email)
}

func (s *Store) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = now() WHERE id::text = $1`, id, at)
	return err
}
