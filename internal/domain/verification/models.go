package verification

import "time"

type Token struct {
	ID        string
	Token     string
	UserID    string
	Type      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Valid reports whether the token can still be consumed at now.
func (t Token) Valid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

type Account struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
}

// Effect is applied to the token's user in the same transaction that marks
// the token used.
type Effect struct {
	MarkEmailVerified bool
	PasswordHash      string
}
