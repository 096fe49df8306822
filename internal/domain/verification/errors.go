package verification

import "empsync/internal/platform/apperr"

var (
	// ErrInvalidToken covers unknown, used, expired and wrong-type tokens alike.
	ErrInvalidToken     = apperr.Invalid("invalid_token", "invalid or expired token")
	ErrAccountNotFound  = apperr.NotFound("user_not_found", "no account found for this email")
	ErrUnknownTokenType = apperr.Invalid("invalid_token_type", "unknown token type")
)
