package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInternal        = errors.New("internal error")
)

// Error is a classified failure. Kind is one of the Err* sentinels above and
// Code is a stable machine-readable identifier returned to clients.
type Error struct {
	Kind    error
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: ErrNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: ErrConflict, Code: code, Message: message}
}

func Invalid(code, message string) *Error {
	return &Error{Kind: ErrInvalidArgument, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: ErrUnauthorized, Code: code, Message: message}
}

func Internal(code, message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Code: code, Message: message, Err: cause}
}

// Kind reports the taxonomy bucket of err, ErrInternal when unclassified.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrInvalidArgument, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
