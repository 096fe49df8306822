package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	// FindByLogin matches login against username or email, case-insensitively.
	FindByLogin(ctx context.Context, login string) (User, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
