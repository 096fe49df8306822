package employee

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"empsync/internal/platform/apperr"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func normalize(emp *Employee) {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Email = strings.TrimSpace(emp.Email)
	emp.Phone = strings.TrimSpace(emp.Phone)
	emp.Department = strings.TrimSpace(emp.Department)
	emp.Position = strings.TrimSpace(emp.Position)
	emp.Gender = strings.TrimSpace(emp.Gender)
	emp.Address = strings.TrimSpace(emp.Address)
	emp.Status = strings.TrimSpace(emp.Status)
	if emp.Status == "" {
		emp.Status = StatusActive
	}
}

func validate(emp Employee) error {
	if emp.Name == "" {
		return invalid("name is required")
	}
	if emp.Email == "" {
		return invalid("email is required")
	}
	if _, err := mail.ParseAddress(emp.Email); err != nil {
		return invalid("email must be a valid address")
	}
	if !emp.Salary.IsPositive() {
		return invalid("salary must be greater than zero")
	}
	if !emp.Salary.Round(2).Equal(emp.Salary) {
		return invalid("salary must have at most two decimal places")
	}
	if emp.Salary.GreaterThanOrEqual(SalaryCeiling) {
		return invalid("salary must be less than 1000000000000")
	}
	if emp.Status != StatusActive && emp.Status != StatusInactive {
		return invalid("status must be Active or Inactive")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, emp Employee) (Employee, error) {
	normalize(&emp)
	if err := validate(emp); err != nil {
		return Employee{}, err
	}
	taken, err := s.store.EmailTaken(ctx, emp.Email, "")
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrEmailTaken
	}
	created, err := s.store.Create(ctx, emp)
	if err != nil {
		return Employee{}, err
	}
	return created.withDeductions(), nil
}

// BulkCreate validates the whole batch before anything is written. Any
// invalid or duplicate record rejects the entire batch.
func (s *Service) BulkCreate(ctx context.Context, emps []Employee) ([]Employee, error) {
	if len(emps) == 0 {
		return nil, invalid("at least one employee is required")
	}
	seen := make(map[string]int, len(emps))
	for i := range emps {
		normalize(&emps[i])
		if err := validate(emps[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		key := strings.ToLower(emps[i].Email)
		if first, dup := seen[key]; dup {
			return nil, apperr.Conflict("employee_exists", fmt.Sprintf("record %d: email duplicates record %d", i, first))
		}
		seen[key] = i
		taken, err := s.store.EmailTaken(ctx, emps[i].Email, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("employee_exists", fmt.Sprintf("record %d: employee email already exists", i))
		}
	}

	created, err := s.store.CreateMany(ctx, emps)
	if err != nil {
		return nil, err
	}
	for i := range created {
		created[i] = created[i].withDeductions()
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	return emp.withDeductions(), nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Employee, error) {
	if filter.MinSalary != nil && filter.MaxSalary != nil && filter.MinSalary.GreaterThan(*filter.MaxSalary) {
		return nil, invalid("minSalary must not exceed maxSalary")
	}
	emps, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Employee, 0, len(emps))
	for _, emp := range emps {
		out = append(out, emp.withDeductions())
	}
	return out, nil
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	return s.List(ctx, Filter{Name: name})
}

func (s *Service) Active(ctx context.Context) ([]Employee, error) {
	return s.List(ctx, Filter{Status: StatusActive})
}

// Update replaces every editable field. Email uniqueness is checked against
// everyone except the employee being updated.
func (s *Service) Update(ctx context.Context, id string, emp Employee) (Employee, error) {
	normalize(&emp)
	if err := validate(emp); err != nil {
		return Employee{}, err
	}
	if err := s.ensureEmailFree(ctx, emp.Email, id); err != nil {
		return Employee{}, err
	}
	updated, err := s.store.Update(ctx, id, func(cur *Employee) error {
		cur.Name = emp.Name
		cur.Email = emp.Email
		cur.Phone = emp.Phone
		cur.Department = emp.Department
		cur.Position = emp.Position
		cur.Salary = emp.Salary
		cur.Gender = emp.Gender
		cur.JoinDate = emp.JoinDate
		cur.Address = emp.Address
		cur.Status = emp.Status
		return nil
	})
	if err != nil {
		return Employee{}, err
	}
	return updated.withDeductions(), nil
}

func (s *Service) Patch(ctx context.Context, id string, patch Patch) (Employee, error) {
	if patch.IsEmpty() {
		return Employee{}, ErrEmptyPatch
	}
	if patch.Email != nil {
		if err := s.ensureEmailFree(ctx, strings.TrimSpace(*patch.Email), id); err != nil {
			return Employee{}, err
		}
	}
	updated, err := s.store.Update(ctx, id, func(cur *Employee) error {
		patch.apply(cur)
		normalize(cur)
		return validate(*cur)
	})
	if err != nil {
		return Employee{}, err
	}
	return updated.withDeductions(), nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, id string) error {
	taken, err := s.store.EmailTaken(ctx, email, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.store.Departments(ctx)
}

func (s *Service) Positions(ctx context.Context) ([]string, error) {
	return s.store.Positions(ctx)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func (s *Service) DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error) {
	return s.store.DepartmentSummaries(ctx)
}

func (s *Service) DepartmentSummary(ctx context.Context, name string) (DepartmentSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DepartmentSummary{}, invalid("department name is required")
	}
	return s.store.DepartmentSummary(ctx, name)
}
