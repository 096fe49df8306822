package employee

import "empsync/internal/platform/apperr"

var (
	ErrEmployeeNotFound = apperr.NotFound("employee_not_found", "employee not found")
	ErrEmailTaken       = apperr.Conflict("employee_exists", "employee email already exists")
	ErrEmptyPatch       = apperr.Invalid("empty_patch", "no fields to update")
)

func invalid(message string) error {
	return apperr.Invalid("invalid_employee", message)
}
