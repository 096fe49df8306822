package shared

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"time"

	"empsync/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects query parameter problems so a request can be rejected
// with every issue at once.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	if reason = strings.TrimSpace(reason); reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() || !end.Before(start) {
		return
	}
	v.Add(startField, "must be on or before "+endField)
	v.Add(endField, "must be on or after "+startField)
}

// DateRange reads the start and end query parameters, both required.
func (v *Validator) DateRange(r *http.Request) (time.Time, time.Time) {
	q := r.URL.Query()
	start, _ := v.Date("start", q.Get("start"))
	end, _ := v.Date("end", q.Get("end"))
	v.DateOrder("start", start, "end", end)
	return start, end
}

// Issues returns the collected issues ordered by field, then reason.
func (v *Validator) Issues() []ValidationIssue {
	if len(v.issues) == 0 {
		return nil
	}
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		if c := cmp.Compare(a.Field, b.Field); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
	return out
}

// Reject writes a 400 listing every issue. It reports whether it did.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	issues := v.Issues()
	if len(issues) == 0 {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "query validation failed",
		map[string]any{"fields": issues}, requestID)
	return true
}
