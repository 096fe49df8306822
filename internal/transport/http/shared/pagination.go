package shared

import (
	"net/http"
	"strconv"
	"strings"

	"empsync/internal/platform/apperr"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset. A zero Limit means no limit was
// requested; values above maxLimit are clamped.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) (Pagination, error) {
	page := Pagination{Limit: defaultLimit}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return Pagination{}, apperr.Invalid("invalid_pagination", "limit must be a positive integer")
		}
		page.Limit = v
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Pagination{}, apperr.Invalid("invalid_pagination", "offset must be zero or a positive integer")
		}
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}
