package verification

import (
	"context"
	"time"
)

type StoreAPI interface {
	AccountByEmail(ctx context.Context, email string) (Account, error)
	InsertToken(ctx context.Context, token Token) (Token, error)
	DeleteTokens(ctx context.Context, userID, tokenType string) error
	StampVerificationSent(ctx context.Context, userID string, at time.Time) error
	// Consume marks a valid token used and applies effect to its user
	// atomically. It returns ErrInvalidToken when no valid token matched.
	Consume(ctx context.Context, token, tokenType string, now time.Time, effect Effect) (string, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
