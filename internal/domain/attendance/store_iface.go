package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	// CreateForDay inserts rec unless the employee already has a record on
	// rec.Date, in which case that record is returned as existing and nothing
	// is written.
	CreateForDay(ctx context.Context, rec Attendance) (created Attendance, existing *Attendance, err error)
	// UpdateOpenForDay locks the employee's open record for day and persists
	// whatever fn changes. ErrNoOpenCheckIn when there is none.
	UpdateOpenForDay(ctx context.Context, employeeID string, day time.Time, fn func(*Attendance) error) (Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	ListByDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	ListOpen(ctx context.Context, employeeID string) ([]Attendance, error)
	EmployeeStats(ctx context.Context, employeeID string, since time.Time) (EmployeeStats, error)
	Stats(ctx context.Context, since time.Time) (Stats, error)
}
