package auth

import "empsync/internal/platform/apperr"

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid_credentials", "invalid credentials")
	ErrAccountInactive    = apperr.Unauthorized("account_inactive", "account is not active")
	ErrEmailNotVerified   = apperr.Unauthorized("email_not_verified", "email not verified")
	ErrInvalidToken       = apperr.Unauthorized("invalid_token", "invalid or expired access token")
	ErrUserNotFound       = apperr.NotFound("user_not_found", "user not found")
	ErrUsernameTaken      = apperr.Conflict("username_taken", "username already exists")
	ErrEmailTaken         = apperr.Conflict("email_taken", "email already exists")
	ErrPasswordMismatch   = apperr.Invalid("password_mismatch", "passwords do not match")
	ErrUnknownUserType    = apperr.Invalid("invalid_user_type", "user type must be admin or employee")
)

func invalid(msg string) error {
	return apperr.Invalid("invalid_registration", msg)
}
