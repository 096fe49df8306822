package performancehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"empsync/internal/domain/performance"
)

type fakeService struct {
	Service
	created    performance.Review
	approverID string
	rangeEnd   time.Time
	periods    map[string]bool
}

func (f *fakeService) Create(_ context.Context, r performance.Review) (performance.Review, error) {
	key := r.EmployeeID + "/" + r.ReviewPeriod
	if f.periods[key] {
		return performance.Review{}, performance.ErrDuplicatePeriod
	}
	f.periods[key] = true
	r.ID = "r1"
	r.Status = performance.StatusDraft
	r.AverageRating = performance.AverageRating(r)
	f.created = r
	return r, nil
}

func (f *fakeService) Approve(_ context.Context, id, approverID string) (performance.Review, error) {
	if id != "r1" {
		return performance.Review{}, performance.ErrReviewNotFound
	}
	f.approverID = approverID
	return performance.Review{ID: id, Status: performance.StatusApproved, ReviewerID: approverID}, nil
}

func (f *fakeService) ByDateRange(_ context.Context, _, end time.Time) ([]performance.Review, error) {
	f.rangeEnd = end
	return []performance.Review{{ID: "r1"}}, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
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

func TestCreateReview(t *testing.T) {
	svc := &fakeService{periods: map[string]bool{}}
	h := newRouter(svc)
	body := `{"employeeId":"e1","reviewPeriod":"2026-Q1","qualityRating":4,"productivityRating":5,"teamworkRating":3,"nextReviewDate":"2026-07-01"}`

	status, out := do(t, h, http.MethodPost, "/performance", body)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", status, out)
	}
	review, _ := out["performance"].(map[string]any)
	if review["averageRating"] != float64(4) || review["status"] != performance.StatusDraft {
		t.Fatalf("unexpected review payload %v", review)
	}
	if svc.created.NextReviewDate == nil || svc.created.NextReviewDate.Month() != time.July {
		t.Fatalf("expected next review date to be parsed, got %v", svc.created.NextReviewDate)
	}
	if svc.created.CommunicationRating != nil {
		t.Fatal("expected omitted rating to stay nil")
	}

	status, out = do(t, h, http.MethodPost, "/performance", body)
	errBody, _ := out["error"].(map[string]any)
	if status != http.StatusConflict || errBody["code"] != "review_exists" {
		t.Fatalf("expected duplicate period conflict, got %d %v", status, out)
	}

	if status, _ := do(t, h, http.MethodPost, "/performance", `{"employeeId":"e1","reviewPeriod":"x","nextReviewDate":"later"}`); status != http.StatusBadRequest {
		t.Fatalf("expected invalid date to fail, got %d", status)
	}
}

func TestApprovePassesApprover(t *testing.T) {
	svc := &fakeService{}
	h := newRouter(svc)

	status, out := do(t, h, http.MethodPost, "/performance/r1/approve?approverId=e9", "")
	if status != http.StatusOK || svc.approverID != "e9" {
		t.Fatalf("unexpected approve %d %v approver=%q", status, out, svc.approverID)
	}
	if status, _ := do(t, h, http.MethodPost, "/performance/nope/approve", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestDateRangeIncludesEndDay(t *testing.T) {
	svc := &fakeService{}
	h := newRouter(svc)

	status, out := do(t, h, http.MethodGet, "/performance/date-range?start=2026-01-01&end=2026-01-31", "")
	if status != http.StatusOK || out["count"] != float64(1) {
		t.Fatalf("unexpected response %d %v", status, out)
	}
	if svc.rangeEnd.Day() != 31 || svc.rangeEnd.Hour() != 23 {
		t.Fatalf("expected end of day, got %v", svc.rangeEnd)
	}
}
