package attendancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"empsync/internal/domain/attendance"
)

type fakeService struct {
	Service
	checkedIn  map[string]bool
	statsDays  int
	rangeStart time.Time
	rangeEnd   time.Time
}

func (f *fakeService) CheckIn(_ context.Context, employeeID, location, notes string) (attendance.Attendance, error) {
	if f.checkedIn[employeeID] {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	f.checkedIn[employeeID] = true
	now := time.Now()
	return attendance.Attendance{ID: "a1", EmployeeID: employeeID, CheckIn: &now, Status: attendance.StatusPresent, Location: location, Notes: notes}, nil
}

func (f *fakeService) CheckOut(_ context.Context, employeeID, _, _ string) (attendance.Attendance, error) {
	if !f.checkedIn[employeeID] {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}
	return attendance.Attendance{ID: "a1", EmployeeID: employeeID}, nil
}

func (f *fakeService) ByDateRange(_ context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	f.rangeStart, f.rangeEnd = start, end
	return nil, nil
}

func (f *fakeService) EmployeeStats(_ context.Context, employeeID string, days int) (attendance.EmployeeStats, error) {
	if days <= 0 {
		return attendance.EmployeeStats{}, attendance.ErrInvalidDays
	}
	f.statsDays = days
	return attendance.EmployeeStats{EmployeeID: employeeID, TotalDays: 3}, nil
}

func (f *fakeService) Stats(_ context.Context, days int) (attendance.Stats, error) {
	if days <= 0 {
		return attendance.Stats{}, attendance.ErrInvalidDays
	}
	f.statsDays = days
	return attendance.Stats{TotalRecords: 5, StatusCounts: map[string]int64{attendance.StatusPresent: 5}}, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestCheckInFlow(t *testing.T) {
	h := newRouter(&fakeService{checkedIn: map[string]bool{}})

	if status, body := do(t, h, http.MethodPost, "/attendance/check-in", `{"location":"HQ"}`); status != http.StatusBadRequest || errorCode(body) != "invalid_attendance" {
		t.Fatalf("expected missing employee id to fail, got %d %v", status, body)
	}
	if status, body := do(t, h, http.MethodPost, "/attendance/check-out", `{"employeeId":"e1"}`); status != http.StatusConflict || errorCode(body) != "no_open_check_in" {
		t.Fatalf("expected conflict for check-out before check-in, got %d %v", status, body)
	}

	status, body := do(t, h, http.MethodPost, "/attendance/check-in", `{"employeeId":"e1","location":"HQ"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", status, body)
	}
	rec, _ := body["attendance"].(map[string]any)
	if rec["location"] != "HQ" || rec["status"] != attendance.StatusPresent {
		t.Fatalf("unexpected attendance payload %v", rec)
	}

	if status, body := do(t, h, http.MethodPost, "/attendance/check-in", `{"employeeId":"e1"}`); status != http.StatusConflict || errorCode(body) != "already_checked_in" {
		t.Fatalf("expected double check-in conflict, got %d %v", status, body)
	}
	if status, _ := do(t, h, http.MethodPost, "/attendance/check-out", `{"employeeId":"e1"}`); status != http.StatusOK {
		t.Fatalf("expected check-out to pass, got %d", status)
	}
}

func TestDateRangeValidation(t *testing.T) {
	svc := &fakeService{}
	h := newRouter(svc)

	status, body := do(t, h, http.MethodGet, "/attendance/date-range?start=2026-05-10&end=2026-05-01", "")
	if status != http.StatusBadRequest || errorCode(body) != "validation_error" {
		t.Fatalf("expected validation error, got %d %v", status, body)
	}
	if status, _ := do(t, h, http.MethodGet, "/attendance/date-range?start=2026-05-01", ""); status != http.StatusBadRequest {
		t.Fatalf("expected missing end to fail, got %d", status)
	}

	status, body = do(t, h, http.MethodGet, "/attendance/date-range?start=2026-05-01&end=2026-05-10", "")
	if status != http.StatusOK || body["count"] != float64(0) {
		t.Fatalf("unexpected response %d %v", status, body)
	}
	if svc.rangeStart.Day() != 1 || svc.rangeEnd.Day() != 10 {
		t.Fatalf("unexpected range %v..%v", svc.rangeStart, svc.rangeEnd)
	}
}

func TestEmployeeStatsDays(t *testing.T) {
	svc := &fakeService{}
	h := newRouter(svc)

	if status, _ := do(t, h, http.MethodGet, "/attendance/employee/e1/stats", ""); status != http.StatusOK || svc.statsDays != attendance.DefaultStatsDays {
		t.Fatalf("expected default window, got %d days", svc.statsDays)
	}
	if status, _ := do(t, h, http.MethodGet, "/attendance/employee/e1/stats?days=7", ""); status != http.StatusOK || svc.statsDays != 7 {
		t.Fatalf("expected 7 day window, got %d", svc.statsDays)
	}
	for _, days := range []string{"abc", "0"} {
		if status, body := do(t, h, http.MethodGet, "/attendance/employee/e1/stats?days="+days, ""); status != http.StatusBadRequest || errorCode(body) != "invalid_days" {
			t.Fatalf("days=%s: expected invalid_days, got %d %v", days, status, body)
		}
	}
}

func TestOverallStatsDays(t *testing.T) {
	svc := &fakeService{}
	h := newRouter(svc)

	status, body := do(t, h, http.MethodGet, "/attendance/stats", "")
	if status != http.StatusOK || svc.statsDays != attendance.DefaultStatsDays {
		t.Fatalf("expected default window, got %d with %d days", status, svc.statsDays)
	}
	stats, _ := body["stats"].(map[string]any)
	if stats["totalRecords"] != float64(5) {
		t.Fatalf("unexpected stats payload %v", body)
	}
	if status, _ := do(t, h, http.MethodGet, "/attendance/stats?days=14", ""); status != http.StatusOK || svc.statsDays != 14 {
		t.Fatalf("expected 14 day window, got %d", svc.statsDays)
	}
	if status, body := do(t, h, http.MethodGet, "/attendance/stats?days=-3", ""); status != http.StatusBadRequest || errorCode(body) != "invalid_days" {
		t.Fatalf("expected invalid_days, got %d %v", status, body)
	}
}
