package attendance

import "empsync/internal/platform/apperr"

var (
	ErrEmployeeNotFound    = apperr.NotFound("employee_not_found", "employee not found")
	ErrAlreadyCheckedIn    = apperr.Conflict("already_checked_in", "employee already checked in today")
	ErrAlreadyCheckedOut   = apperr.Conflict("already_checked_out", "employee already checked in and out today")
	ErrAlreadyMarkedAbsent = apperr.Conflict("already_marked_absent", "employee is already marked absent today")
	ErrAlreadyRecorded     = apperr.Conflict("attendance_exists", "attendance already recorded for today")
	ErrNoOpenCheckIn       = apperr.Conflict("no_open_check_in", "no open check-in found for today")
	ErrInvalidRange        = apperr.Invalid("invalid_range", "start must be on or before end")
	ErrInvalidDays         = apperr.Invalid("invalid_days", "days must be positive")
)
