package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"empsync/internal/platform/apperr"
)

const employeeColumns = `id::text, name, email, phone, department, position, salary::text, gender,
  join_date, address, status, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var salary string
	if err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Department, &emp.Position, &salary, &emp.Gender,
		&emp.JoinDate, &emp.Address, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		return Employee{}, err
	}
	parsed, err := decimal.NewFromString(salary)
	if err != nil {
		return Employee{}, fmt.Errorf("parse salary %q: %w", salary, err)
	}
	emp.Salary = parsed
	return emp, nil
}

func translateWriteErr(err error) error {
	if apperr.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertEmployee(ctx context.Context, q querier, emp Employee) (Employee, error) {
	emp = emp.withDeductions()
	row := q.QueryRow(ctx, `
    INSERT INTO employees (name, email, phone, department, position, salary, gender, join_date, address, status, bonus, pf, tax)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING `+employeeColumns,
		emp.Name, emp.Email, emp.Phone, emp.Department, emp.Position, emp.Salary.String(), emp.Gender,
		emp.JoinDate, emp.Address, emp.Status, emp.Bonus.String(), emp.PF.String(), emp.Tax.String())
	created, err := scanEmployee(row)
	if err != nil {
		return Employee{}, translateWriteErr(err)
	}
	return created, nil
}

func (s *Store) Create(ctx context.Context, emp Employee) (Employee, error) {
	return insertEmployee(ctx, s.DB, emp)
}

func (s *Store) CreateMany(ctx context.Context, emps []Employee) ([]Employee, error) {
	created := make([]Employee, 0, len(emps))
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, emp := range emps {
			row, err := insertEmployee(ctx, tx, emp)
			if err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id::text = $1`, id))
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Employee, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.Department != "" {
		add("lower(department) = lower($%d)", filter.Department)
	}
	if filter.Gender != "" {
		add("lower(gender) = lower($%d)", filter.Gender)
	}
	if filter.Status != "" {
		add("lower(status) = lower($%d)", filter.Status)
	}
	if filter.Position != "" {
		add("lower(position) = lower($%d)", filter.Position)
	}
	if filter.Name != "" {
		add("name ILIKE '%%' || $%d || '%%'", escapeLike(filter.Name))
	}
	if filter.MinSalary != nil {
		add("salary >= $%d::numeric", filter.MinSalary.String())
	}
	if filter.MaxSalary != nil {
		add("salary <= $%d::numeric", filter.MaxSalary.String())
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, id string, fn func(*Employee) error) (Employee, error) {
	var updated Employee
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		current, err := scanEmployee(tx.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id::text = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(&current); err != nil {
			return err
		}
		current = current.withDeductions()
		updated, err = scanEmployee(tx.QueryRow(ctx, `
      UPDATE employees
      SET name = $2, email = $3, phone = $4, department = $5, position = $6, salary = $7, gender = $8,
          join_date = $9, address = $10, status = $11, bonus = $12, pf = $13, tax = $14, updated_at = now()
      WHERE id::text = $1
      RETURNING `+employeeColumns,
			id, current.Name, current.Email, current.Phone, current.Department, current.Position, current.Salary.String(),
			current.Gender, current.JoinDate, current.Address, current.Status,
			current.Bonus.String(), current.PF.String(), current.Tax.String()))
		return err
	})
	if err != nil {
		return Employee{}, translateWriteErr(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees WHERE id::text = $1`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees
    WHERE lower(email) = lower($1) AND ($2 = '' OR id::text <> $2)
  `, email, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT DISTINCT `+column+` FROM employees WHERE `+column+` <> '' ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

func (s *Store) Departments(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "department")
}

func (s *Store) Positions(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "position")
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees`).Scan(&count)
	return count, err
}

func scanSummary(row pgx.Row) (DepartmentSummary, error) {
	var summary DepartmentSummary
	var avg string
	if err := row.Scan(&summary.Name, &summary.Count, &avg); err != nil {
		return DepartmentSummary{}, err
	}
	parsed, err := decimal.NewFromString(avg)
	if err != nil {
		return DepartmentSummary{}, err
	}
	summary.AverageSalary = parsed
	return summary, nil
}

func (s *Store) DepartmentSummaries(ctx context.Context) ([]DepartmentSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT department, COUNT(1), COALESCE(ROUND(AVG(salary), 2), 0)::text
    FROM employees
    WHERE department <> ''
    GROUP BY department
    ORDER BY department
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DepartmentSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentSummary(ctx context.Context, name string) (DepartmentSummary, error) {
	return scanSummary(s.DB.QueryRow(ctx, `
    SELECT $1::text, COUNT(1), COALESCE(ROUND(AVG(salary), 2), 0)::text
    FROM employees
    WHERE lower(department) = lower($1)
  `, name))
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
