package attendance

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock swaps the time source, used to pin "today" in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func conflictFor(existing Attendance) error {
	switch {
	case existing.Status == StatusAbsent:
		return ErrAlreadyMarkedAbsent
	case existing.CheckOut == nil:
		return ErrAlreadyCheckedIn
	default:
		return ErrAlreadyCheckedOut
	}
}

func (s *Service) CheckIn(ctx context.Context, employeeID, location, notes string) (Attendance, error) {
	now := s.now()
	rec := Attendance{
		EmployeeID: strings.TrimSpace(employeeID),
		Date:       Day(now),
		CheckIn:    &now,
		Status:     StatusPresent,
		Location:   strings.TrimSpace(location),
		Notes:      strings.TrimSpace(notes),
	}
	created, existing, err := s.store.CreateForDay(ctx, rec)
	if err != nil {
		return Attendance{}, err
	}
	if existing != nil {
		return Attendance{}, conflictFor(*existing)
	}
	return created, nil
}

func (s *Service) CheckOut(ctx context.Context, employeeID, location, notes string) (Attendance, error) {
	employeeID = strings.TrimSpace(employeeID)
	exists, err := s.store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Attendance{}, err
	}
	if !exists {
		return Attendance{}, ErrEmployeeNotFound
	}

	now := s.now()
	return s.store.UpdateOpenForDay(ctx, employeeID, Day(now), func(rec *Attendance) error {
		rec.CheckOut = &now
		if location = strings.TrimSpace(location); location != "" {
			rec.Location = location
		}
		if notes = strings.TrimSpace(notes); notes != "" {
			rec.Notes = notes
		}
		rec.Recalculate()
		return nil
	})
}

func (s *Service) MarkAbsent(ctx context.Context, employeeID, notes string) (Attendance, error) {
	rec := Attendance{
		EmployeeID: strings.TrimSpace(employeeID),
		Date:       Day(s.now()),
		Status:     StatusAbsent,
		Notes:      strings.TrimSpace(notes),
	}
	created, existing, err := s.store.CreateForDay(ctx, rec)
	if err != nil {
		return Attendance{}, err
	}
	if existing != nil {
		return Attendance{}, conflictFor(*existing)
	}
	return created, nil
}

func (s *Service) ByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]Attendance, error) {
	return s.ByEmployeeDateRange(ctx, "", start, end)
}

func (s *Service) ByEmployeeDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	return s.store.ListByDateRange(ctx, employeeID, start, end)
}

func (s *Service) ActiveForEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	return s.store.ListOpen(ctx, employeeID)
}

func (s *Service) Active(ctx context.Context) ([]Attendance, error) {
	return s.store.ListOpen(ctx, "")
}

// EmployeeStats aggregates the employee's records over the last days days,
// today included.
func (s *Service) EmployeeStats(ctx context.Context, employeeID string, days int) (EmployeeStats, error) {
	if days <= 0 {
		return EmployeeStats{}, ErrInvalidDays
	}
	since := Day(s.now()).AddDate(0, 0, -(days - 1))
	return s.store.EmployeeStats(ctx, employeeID, since)
}

// Stats aggregates every employee's records over the last days days, today
// included.
func (s *Service) Stats(ctx context.Context, days int) (Stats, error) {
	if days <= 0 {
		return Stats{}, ErrInvalidDays
	}
	return s.store.Stats(ctx, Day(s.now()).AddDate(0, 0, -(days-1)))
}
