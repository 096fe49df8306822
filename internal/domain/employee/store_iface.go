package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	CreateMany(ctx context.Context, emps []Employee) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter Filter) ([]Employee, error)
	// Update loads the employee under a row lock, lets fn mutate it and
	// persists the result in the same transaction.
	Update(ctx context.Context, id string, fn func(*Employee) error) (Employee, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Departments(ctx context.Context) ([]string, error)
	Positions(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error)
	DepartmentSummary(ctx context.Context, name string) (DepartmentSummary, error)
}
