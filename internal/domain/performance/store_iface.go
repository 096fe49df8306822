package performance

import (
	"context"
	"time"
)

type StoreAPI interface {
	EmployeeExists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, review Review) (Review, error)
	Get(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, id string, fn func(*Review) error) (Review, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Review, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]Review, error)
	GetByEmployeePeriod(ctx context.Context, employeeID, period string) (Review, error)
	ListByReviewDate(ctx context.Context, start, end time.Time) ([]Review, error)
	ListByStatus(ctx context.Context, status string) ([]Review, error)
	// ListUpcoming returns reviews whose next review date is on or before
	// until, overdue ones included, earliest first.
	ListUpcoming(ctx context.Context, employeeID string, until time.Time) ([]Review, error)
	Stats(ctx context.Context, since time.Time) (Stats, error)
	EmployeeAggregates(ctx context.Context, employeeID string) (avg float64, pending int64, err error)
}
