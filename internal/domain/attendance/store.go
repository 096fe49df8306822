package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empsync/internal/platform/apperr"
)

const attendanceColumns = `id::text, employee_id::text, work_date, check_in, check_out, status,
  work_hours, overtime_hours, location, notes, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanAttendance(row pgx.Row) (Attendance, error) {
	var rec Attendance
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status,
		&rec.WorkHours, &rec.OvertimeHours, &rec.Location, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func collect(rows pgx.Rows, err error) ([]Attendance, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attendance{}
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees WHERE id::text = $1`, employeeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateForDay(ctx context.Context, rec Attendance) (Attendance, *Attendance, error) {
	var (
		created  Attendance
		existing *Attendance
	)
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		// The employee row lock serializes concurrent writers for the same person.
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id::text FROM employees WHERE id::text = $1 FOR UPDATE`, rec.EmployeeID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrEmployeeNotFound
			}
			return err
		}

		current, err := scanAttendance(tx.QueryRow(ctx, `
      SELECT `+attendanceColumns+`
      FROM attendance
      WHERE employee_id::text = $1 AND work_date = $2
    `, rec.EmployeeID, rec.Date))
		if err == nil {
			existing = &current
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		created, err = scanAttendance(tx.QueryRow(ctx, `
      INSERT INTO attendance (employee_id, work_date, check_in, check_out, status, work_hours, overtime_hours, location, notes)
      VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9)
      RETURNING `+attendanceColumns,
			rec.EmployeeID, rec.Date, rec.CheckIn, rec.CheckOut, rec.Status, rec.WorkHours, rec.OvertimeHours, rec.Location, rec.Notes))
		return err
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Attendance{}, nil, ErrAlreadyRecorded
		}
		return Attendance{}, nil, err
	}
	return created, existing, nil
}

func (s *Store) UpdateOpenForDay(ctx context.Context, employeeID string, day time.Time, fn func(*Attendance) error) (Attendance, error) {
	var updated Attendance
	err := pgx.BeginTxFunc(ctx, s.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		current, err := scanAttendance(tx.QueryRow(ctx, `
      SELECT `+attendanceColumns+`
      FROM attendance
      WHERE employee_id::text = $1 AND work_date = $2 AND check_in IS NOT NULL AND check_out IS NULL
      FOR UPDATE
    `, employeeID, day))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNoOpenCheckIn
			}
			return err
		}
		if err := fn(&current); err != nil {
			return err
		}
		updated, err = scanAttendance(tx.QueryRow(ctx, `
      UPDATE attendance
      SET check_in = $2, check_out = $3, status = $4, work_hours = $5, overtime_hours = $6,
          location = $7, notes = $8, updated_at = now()
      WHERE id::text = $1
      RETURNING `+attendanceColumns,
			current.ID, current.CheckIn, current.CheckOut, current.Status, current.WorkHours, current.OvertimeHours,
			current.Location, current.Notes))
		return err
	})
	if err != nil {
		return Attendance{}, err
	}
	return updated, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendance
    WHERE employee_id::text = $1
    ORDER BY work_date DESC
  `, employeeID))
}

func (s *Store) ListByDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendance
    WHERE work_date BETWEEN $1 AND $2 AND ($3 = '' OR employee_id::text = $3)
    ORDER BY work_date DESC, employee_id
  `, start, end, employeeID))
}

func (s *Store) ListOpen(ctx context.Context, employeeID string) ([]Attendance, error) {
	return collect(s.DB.Query(ctx, `
    SELECT `+attendanceColumns+`
    FROM attendance
    WHERE check_in IS NOT NULL AND check_out IS NULL AND ($1 = '' OR employee_id::text = $1)
    ORDER BY check_in DESC
  `, employeeID))
}

func (s *Store) EmployeeStats(ctx context.Context, employeeID string, since time.Time) (EmployeeStats, error) {
	stats := EmployeeStats{EmployeeID: employeeID, Since: since}
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(AVG(work_hours), 0), COALESCE(SUM(work_hours), 0)
    FROM attendance
    WHERE employee_id::text = $1 AND work_date >= $2
  `, employeeID, since).Scan(&stats.TotalDays, &stats.AverageWorkHours, &stats.TotalWorkHours)
	if err != nil {
		return EmployeeStats{}, err
	}
	stats.AverageWorkHours = round2(stats.AverageWorkHours)
	stats.TotalWorkHours = round2(stats.TotalWorkHours)
	return stats, nil
}

func (s *Store) Stats(ctx context.Context, since time.Time) (Stats, error) {
	stats := Stats{Since: since, StatusCounts: map[string]int64{StatusPresent: 0, StatusAbsent: 0}}
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(AVG(work_hours), 0), COALESCE(SUM(work_hours), 0)
    FROM attendance
    WHERE work_date >= $1
  `, since).Scan(&stats.TotalRecords, &stats.AverageWorkHours, &stats.TotalWorkHours)
	if err != nil {
		return Stats{}, err
	}
	stats.AverageWorkHours = round2(stats.AverageWorkHours)
	stats.TotalWorkHours = round2(stats.TotalWorkHours)

	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM attendance
    WHERE work_date >= $1
    GROUP BY status
  `, since)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.StatusCounts[status] = count
	}
	return stats, rows.Err()
}
