package performance

import "empsync/internal/platform/apperr"

var (
	ErrReviewNotFound   = apperr.NotFound("review_not_found", "performance review not found")
	ErrEmployeeNotFound = apperr.Invalid("employee_not_found", "employee not found")
	ErrReviewerNotFound = apperr.Invalid("reviewer_not_found", "reviewer not found")
	ErrDuplicatePeriod  = apperr.Conflict("review_exists", "performance review already exists for this employee and period")
	ErrInvalidRange     = apperr.Invalid("invalid_range", "start must be on or before end")
)

func invalid(msg string) error {
	return apperr.Invalid("invalid_review", msg)
}
