package verification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, email, name, email_verified
    FROM users
    WHERE lower(email) = lower($1)
  `, email).Scan(&a.ID, &a.Email, &a.Name, &a.EmailVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (s *Store) InsertToken(ctx context.Context, t Token) (Token, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO verification_tokens (token, user_id, token_type, expires_at)
    VALUES ($1, $2::uuid, $3, $4)
    RETURNING id::text, used, created_at
  `, t.Token, t.UserID, t.Type, t.ExpiresAt).Scan(&t.ID, &t.Used, &t.CreatedAt)
	if err != nil {
		return Token{}, err
	}
	return t, nil
}

func (s *Store) DeleteTokens(ctx context.Context, userID, tokenType string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM verification_tokens WHERE user_id::text = $1 AND token_type = $2`, userID, tokenType)
	return err
}

func (s *Store) StampVerificationSent(ctx context.Context, userID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `UPDATE users SET verification_sent_at = $2, updated_at = now() WHERE id::text = $1`, userID, at)
	return err
}

func (s *Store) Consume(ctx context.Context, token, tokenType string, now time.Time, effect Effect) (string, error) {
	var userID string
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		// The guarded update is the single point of truth: of two concurrent
		// consumers only one sees a row come back.
		err := tx.QueryRow(ctx, `
      UPDATE verification_tokens
      SET used = true
      WHERE token = $1 AND token_type = $2 AND NOT used AND expires_at > $3
      RETURNING user_id::text
    `, token, tokenType, now).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidToken
			}
			return err
		}
		if effect.MarkEmailVerified {
			if _, err := tx.Exec(ctx, `UPDATE users SET email_verified = true, updated_at = now() WHERE id::text = $1`, userID); err != nil {
				return err
			}
		}
		if effect.PasswordHash != "" {
			if _, err := tx.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id::text = $1`, userID, effect.PasswordHash); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM verification_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
