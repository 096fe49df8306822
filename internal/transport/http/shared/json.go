package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"empsync/internal/platform/apperr"
)

// DecodeJSON reads a single JSON value from the request body. With strict
// set, fields dst does not declare are rejected with code invalid_field.
func DecodeJSON(r *http.Request, dst any, strict bool) error {
	if r.Body == nil {
		return apperr.Invalid("invalid_json", "request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("body_too_large", "request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Invalid("invalid_json", "request body is required")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return apperr.Invalid("invalid_field", "unknown field "+field)
		default:
			return apperr.Invalid("invalid_json", "invalid json payload")
		}
	}
	if dec.More() {
		return apperr.Invalid("invalid_json", "request body must contain a single json value")
	}
	return nil
}
