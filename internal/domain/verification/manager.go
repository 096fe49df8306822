package verification

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"empsync/internal/domain/auth"
)

type Notifier interface {
	SendVerification(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// Manager issues and redeems single-use tokens for email verification and
// password resets.
type Manager struct {
	store    StoreAPI
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(store StoreAPI, notifier Notifier, ttl time.Duration) *Manager {
	return &Manager{store: store, notifier: notifier, ttl: ttl, now: time.Now}
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func newTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (m *Manager) Issue(ctx context.Context, userID, tokenType string) (Token, error) {
	if tokenType != TypeEmailVerification && tokenType != TypePasswordReset {
		return Token{}, ErrUnknownTokenType
	}
	value, err := newTokenValue()
	if err != nil {
		return Token{}, err
	}
	return m.store.InsertToken(ctx, Token{
		Token:     value,
		UserID:    userID,
		Type:      tokenType,
		ExpiresAt: m.now().Add(m.ttl),
	})
}

func (m *Manager) Consume(ctx context.Context, token, tokenType string, effect Effect) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	return m.store.Consume(ctx, token, tokenType, m.now(), effect)
}

// CleanupExpired deletes every token past its expiry and reports how many.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// SendVerification issues a fresh verification token for the account and
// mails it. The token survives a failed send so a resend can replace it.
func (m *Manager) SendVerification(ctx context.Context, userID, email, name string) error {
	token, err := m.Issue(ctx, userID, TypeEmailVerification)
	if err != nil {
		return err
	}
	if err := m.store.StampVerificationSent(ctx, userID, m.now()); err != nil {
		return err
	}
	return m.notifier.SendVerification(ctx, email, name, token.Token)
}

func (m *Manager) VerifyEmail(ctx context.Context, token string) (string, error) {
	return m.Consume(ctx, token, TypeEmailVerification, Effect{MarkEmailVerified: true})
}

// ResendVerification replaces the account's verification token and mails the
// new one. Unknown and already verified addresses succeed without sending, so
// the answer never reveals whether an address is registered.
func (m *Manager) ResendVerification(ctx context.Context, email string) error {
	account, err := m.store.AccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			slog.Debug("verification resend for unknown email skipped")
			return nil
		}
		return err
	}
	if account.EmailVerified {
		slog.Debug("verification resend for verified account skipped", "userId", account.ID)
		return nil
	}
	if err := m.store.DeleteTokens(ctx, account.ID, TypeEmailVerification); err != nil {
		return err
	}
	if err := m.SendVerification(ctx, account.ID, account.Email, account.Name); err != nil {
		slog.Warn("verification resend email failed", "userId", account.ID, "err", err)
	}
	return nil
}

// RequestPasswordReset mails a reset link. Unknown addresses succeed silently
// so callers cannot tell which emails have accounts.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := m.store.AccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return err
	}
	token, err := m.Issue(ctx, account.ID, TypePasswordReset)
	if err != nil {
		return err
	}
	if err := m.notifier.SendPasswordReset(ctx, account.Email, account.Name, token.Token); err != nil {
		slog.Warn("password reset email failed", "userId", account.ID, "err", err)
	}
	return nil
}

func (m *Manager) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if err := auth.ValidatePassword(password, confirm); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = m.Consume(ctx, token, TypePasswordReset, Effect{PasswordHash: hash})
	return err
}
