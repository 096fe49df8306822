package employee

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"empsync/internal/platform/apperr"
)

type memStore struct {
	mu     sync.Mutex
	nextID int
	rows   map[string]Employee
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]Employee{}}
}

func (m *memStore) emailTakenLocked(email, excludeID string) bool {
	for id, row := range m.rows {
		if id != excludeID && strings.EqualFold(row.Email, email) {
			return true
		}
	}
	return false
}

func (m *memStore) insertLocked(emp Employee) (Employee, error) {
	if m.emailTakenLocked(emp.Email, "") {
		return Employee{}, ErrEmailTaken
	}
	m.nextID++
	emp.ID = "emp-" + strconv.Itoa(m.nextID)
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = emp.CreatedAt
	// Stored deductions are deliberately stale to prove reads recompute.
	emp.Bonus, emp.PF, emp.Tax = decimal.NewFromInt(-1), decimal.NewFromInt(-1), decimal.NewFromInt(-1)
	m.rows[emp.ID] = emp
	return emp, nil
}

func (m *memStore) Create(_ context.Context, emp Employee) (Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(emp)
}

func (m *memStore) CreateMany(_ context.Context, emps []Employee) ([]Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[string]Employee, len(m.rows))
	for k, v := range m.rows {
		snapshot[k] = v
	}
	var out []Employee
	for _, emp := range emps {
		row, err := m.insertLocked(emp)
		if err != nil {
			m.rows = snapshot
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return row, nil
}

func (m *memStore) List(_ context.Context, filter Filter) ([]Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Employee
	for _, row := range m.rows {
		if filter.Department != "" && !strings.EqualFold(row.Department, filter.Department) {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(row.Status, filter.Status) {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.MinSalary != nil && row.Salary.LessThan(*filter.MinSalary) {
			continue
		}
		if filter.MaxSalary != nil && row.Salary.GreaterThan(*filter.MaxSalary) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) Update(_ context.Context, id string, fn func(*Employee) error) (Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	if err := fn(&row); err != nil {
		return Employee{}, err
	}
	if m.emailTakenLocked(row.Email, id) {
		return Employee{}, ErrEmailTaken
	}
	m.rows[id] = row
	return row, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memStore) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emailTakenLocked(email, excludeID), nil
}

func (m *memStore) Departments(context.Context) ([]string, error) { return nil, nil }
func (m *memStore) Positions(context.Context) ([]string, error)   { return nil, nil }

func (m *memStore) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memStore) DepartmentSummaries(context.Context) ([]DepartmentSummary, error) {
	return nil, nil
}

func (m *memStore) DepartmentSummary(_ context.Context, name string) (DepartmentSummary, error) {
	return DepartmentSummary{Name: name}, nil
}

func sample(name, email string, salary int64) Employee {
	return Employee{Name: name, Email: email, Department: "Engineering", Position: "Engineer", Salary: decimal.NewFromInt(salary)}
}

func TestCreateComputesDeductionsAndDefaultsStatus(t *testing.T) {
	svc := NewService(newMemStore())
	emp, err := svc.Create(context.Background(), sample("Asha", "asha@example.com", 600000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.Status != StatusActive {
		t.Fatalf("expected default status Active, got %q", emp.Status)
	}
	if !emp.Bonus.Equal(decimal.NewFromInt(60000)) || !emp.PF.Equal(decimal.NewFromInt(72000)) || !emp.Tax.Equal(decimal.NewFromInt(32500)) {
		t.Fatalf("unexpected deductions bonus=%s pf=%s tax=%s", emp.Bonus, emp.PF, emp.Tax)
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	if _, err := svc.Create(ctx, sample("Asha", "asha@example.com", 1000)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, sample("Other", "ASHA@example.com", 2000))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		emp  Employee
	}{
		{name: "missing name", emp: sample("", "a@example.com", 10)},
		{name: "bad email", emp: sample("A", "not-an-email", 10)},
		{name: "zero salary", emp: sample("A", "a@example.com", 0)},
		{name: "negative salary", emp: sample("A", "a@example.com", -5)},
		{name: "sub-cent salary", emp: func() Employee {
			e := sample("A", "a@example.com", 0)
			e.Salary = decimal.RequireFromString("0.001")
			return e
		}()},
		{name: "three decimal places", emp: func() Employee {
			e := sample("A", "a@example.com", 0)
			e.Salary = decimal.RequireFromString("5000.125")
			return e
		}()},
		{name: "salary at column ceiling", emp: sample("A", "a@example.com", 1_000_000_000_000)},
		{name: "bad status", emp: func() Employee {
			e := sample("A", "a@example.com", 10)
			e.Status = "Retired"
			return e
		}()},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewService(newMemStore()).Create(context.Background(), tc.emp)
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestGetRecomputesDeductionsIdempotently(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	created, err := svc.Create(ctx, sample("Asha", "asha@example.com", 1200000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !first.Tax.Equal(decimal.NewFromInt(172500)) {
		t.Fatalf("expected recomputed tax 172500, got %s", first.Tax)
	}
	if !first.Bonus.Equal(second.Bonus) || !first.PF.Equal(second.PF) || !first.Tax.Equal(second.Tax) {
		t.Fatalf("expected identical deductions, got %+v vs %+v", first, second)
	}
}

func TestGetUnknownIsNotFound(t *testing.T) {
	_, err := NewService(newMemStore()).Get(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAllowsOwnEmailButRejectsOthers(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	a, _ := svc.Create(ctx, sample("A", "a@example.com", 1000))
	b, _ := svc.Create(ctx, sample("B", "b@example.com", 1000))

	a.Position = "Lead"
	a.Salary = decimal.NewFromInt(300000)
	updated, err := svc.Update(ctx, a.ID, a)
	if err != nil {
		t.Fatalf("update with own email: %v", err)
	}
	if updated.Position != "Lead" || !updated.Tax.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("unexpected update result %+v", updated)
	}

	b.Email = "a@example.com"
	if _, err := svc.Update(ctx, b.ID, b); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPatch(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	emp, _ := svc.Create(ctx, sample("A", "a@example.com", 1000))

	dept := "Finance"
	salary := decimal.NewFromInt(500000)
	patched, err := svc.Patch(ctx, emp.ID, Patch{Department: &dept, Salary: &salary})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Department != "Finance" || patched.Name != "A" {
		t.Fatalf("unexpected patch result %+v", patched)
	}
	if !patched.Tax.Equal(decimal.NewFromInt(12500)) {
		t.Fatalf("expected tax recomputed to 12500, got %s", patched.Tax)
	}

	if _, err := svc.Patch(ctx, emp.ID, Patch{}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected empty patch to be rejected, got %v", err)
	}

	zero := decimal.Zero
	if _, err := svc.Patch(ctx, emp.ID, Patch{Salary: &zero}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid salary to be rejected, got %v", err)
	}
	if _, err := svc.Patch(ctx, "missing", Patch{Department: &dept}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBulkCreateIsAllOrNothing(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()
	if _, err := svc.Create(ctx, sample("Existing", "taken@example.com", 1000)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name  string
		batch []Employee
		kind  error
	}{
		{name: "invalid record", batch: []Employee{sample("A", "a@example.com", 1), sample("B", "b@example.com", 0)}, kind: apperr.ErrInvalidArgument},
		{name: "duplicate inside batch", batch: []Employee{sample("A", "a@example.com", 1), sample("B", "A@example.com", 1)}, kind: apperr.ErrConflict},
		{name: "duplicate against store", batch: []Employee{sample("A", "a@example.com", 1), sample("B", "taken@example.com", 1)}, kind: apperr.ErrConflict},
		{name: "empty batch", batch: nil, kind: apperr.ErrInvalidArgument},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BulkCreate(ctx, tc.batch)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			count, _ := store.Count(ctx)
			if count != 1 {
				t.Fatalf("expected nothing persisted, have %d rows", count)
			}
		})
	}

	created, err := svc.BulkCreate(ctx, []Employee{sample("A", "a@example.com", 1), sample("B", "b@example.com", 2)})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 2 || created[0].Bonus.IsNegative() {
		t.Fatalf("unexpected bulk result %+v", created)
	}
}

func TestListFiltersAndSalaryRange(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	_, _ = svc.Create(ctx, sample("Alice Smith", "alice@example.com", 100))
	_, _ = svc.Create(ctx, sample("Bob Stone", "bob@example.com", 500))

	found, err := svc.SearchByName(ctx, "smi")
	if err != nil || len(found) != 1 || found[0].Name != "Alice Smith" {
		t.Fatalf("unexpected search result %v %+v", err, found)
	}

	lo := decimal.NewFromInt(200)
	ranged, err := svc.List(ctx, Filter{MinSalary: &lo})
	if err != nil || len(ranged) != 1 || ranged[0].Name != "Bob Stone" {
		t.Fatalf("unexpected salary filter result %v %+v", err, ranged)
	}

	hi := decimal.NewFromInt(100)
	if _, err := svc.List(ctx, Filter{MinSalary: &lo, MaxSalary: &hi}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected inverted range to be rejected, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	emp, _ := svc.Create(ctx, sample("A", "a@example.com", 1))
	if err := svc.Delete(ctx, emp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, emp.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSalaryPrecisionBoundaries(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	for i, raw := range []string{"0.01", "5000.50", "5000.500", "999999999999.99"} {
		emp := sample("A", fmt.Sprintf("ok%d@example.com", i), 0)
		emp.Salary = decimal.RequireFromString(raw)
		if _, err := svc.Create(ctx, emp); err != nil {
			t.Fatalf("salary %s: expected to be accepted, got %v", raw, err)
		}
	}
}
