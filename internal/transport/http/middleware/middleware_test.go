package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestRecovererAnswers500(t *testing.T) {
	handler := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"internal_error"`) || strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestLoggerPassesThroughStatus(t *testing.T) {
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (f *fakeRecorder) Record(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedRequest{method: method, route: route, status: status})
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	recorder := &fakeRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/employees/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees/abc-123", nil))

	if len(recorder.seen) != 1 {
		t.Fatalf("expected one observation, got %d", len(recorder.seen))
	}
	got := recorder.seen[0]
	if got.route != "/employees/{id}" || got.status != http.StatusNotFound || got.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", got)
	}
}

func TestBodyLimitCapsReads(t *testing.T) {
	var readErr error
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	if !errors.As(readErr, &maxErr) {
		t.Fatalf("expected max bytes error, got %v", readErr)
	}
}

func TestBodyLimitRejectsDeclaredLength(t *testing.T) {
	called := false
	handler := BodyLimit(8)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(strings.Repeat("x", 32)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called || rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 before the handler, got %d (called=%v)", rec.Code, called)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("missing security headers: %v", rec.Header())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected api responses to be uncacheable, got %q", rec.Header().Get("Cache-Control"))
	}

	rec = httptest.NewRecorder()
	SecureHeaders(false)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" || rec.Header().Get("Cache-Control") != "" {
		t.Fatalf("unexpected headers outside production api: %v", rec.Header())
	}
}
