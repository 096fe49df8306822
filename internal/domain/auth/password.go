package auth

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"empsync/internal/platform/apperr"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// dummyHash is compared against when a login names no account, so unknown
// and known usernames cost the same bcrypt work.
var dummyHash = sync.OnceValue(func() string {
	hashed, err := bcrypt.GenerateFromPassword([]byte("empsync-no-such-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("dummy bcrypt hash: %v", err))
	}
	return string(hashed)
})

// ValidatePassword checks a new password and its confirmation.
func ValidatePassword(password, confirm string) error {
	if strings.TrimSpace(password) == "" {
		return apperr.Invalid("invalid_password", "password is required")
	}
	if len(password) < MinPasswordLength {
		return apperr.Invalid("invalid_password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	// bcrypt ignores everything past 72 bytes.
	if len(password) > 72 {
		return apperr.Invalid("invalid_password", "password must be at most 72 bytes")
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
