package auth

import (
	"errors"
	"testing"
	"time"

	"empsync/internal/platform/apperr"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "super-secret" {
		t.Fatal("expected password to be hashed")
	}
	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", Username: "ada", Role: RoleAdmin}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.UserID != claims.UserID || parsed.Username != claims.Username || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature mismatch")
	}
	expired, err := GenerateToken(secret, claims, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken(secret, expired); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{name: "ok", password: "correct-horse", confirm: "correct-horse"},
		{name: "empty", password: "", confirm: "", wantErr: apperr.ErrInvalidArgument},
		{name: "short", password: "short", confirm: "short", wantErr: apperr.ErrInvalidArgument},
		{name: "mismatch", password: "correct-horse", confirm: "battery-staple", wantErr: ErrPasswordMismatch},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password, tc.confirm)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
