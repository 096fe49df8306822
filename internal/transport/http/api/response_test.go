package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"empsync/internal/platform/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSuccessUsesPayloadKey(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Employee created successfully", "employee", map[string]string{"name": "Asha"}, "req-1")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "Employee created successfully" || body["requestId"] != "req-1" {
		t.Fatalf("unexpected envelope %v", body)
	}
	emp, ok := body["employee"].(map[string]any)
	if !ok || emp["name"] != "Asha" {
		t.Fatalf("expected employee payload, got %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error field in %v", body)
	}
}

func TestFailErrMapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: apperr.NotFound("employee_not_found", "employee not found"), status: http.StatusNotFound, code: "employee_not_found"},
		{name: "conflict", err: apperr.Conflict("employee_exists", "email taken"), status: http.StatusConflict, code: "employee_exists"},
		{name: "invalid wrapped", err: fmt.Errorf("record 2: %w", apperr.Invalid("invalid_employee", "name is required")), status: http.StatusBadRequest, code: "invalid_employee"},
		{name: "unauthorized", err: apperr.Unauthorized("invalid_credentials", "invalid credentials"), status: http.StatusUnauthorized, code: "invalid_credentials"},
		{name: "internal", err: apperr.Internal("db", "boom", errors.New("pg down")), status: http.StatusInternalServerError, code: "internal_error"},
		{name: "plain", err: errors.New("socket closed"), status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FailErr(rec, tc.err, "req")
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			body := decode(t, rec)
			errBody, _ := body["error"].(map[string]any)
			if body["success"] != false || errBody["code"] != tc.code {
				t.Fatalf("unexpected body %v", body)
			}
			if tc.status == http.StatusInternalServerError && errBody["message"] != "internal server error" {
				t.Fatalf("expected generic message, got %v", errBody["message"])
			}
		})
	}
}

func TestFailWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	FailWithDetails(rec, http.StatusBadRequest, "validation_error", "payload validation failed", map[string]any{"fields": []string{"name"}}, "")

	body := decode(t, rec)
	errBody, _ := body["error"].(map[string]any)
	details, _ := errBody["details"].(map[string]any)
	if details == nil || details["fields"] == nil {
		t.Fatalf("expected details in %v", body)
	}
	if _, ok := body["requestId"]; ok {
		t.Fatal("empty request id should be omitted")
	}
}

func TestListIncludesCount(t *testing.T) {
	rec := httptest.NewRecorder()
	var none []string
	List(rec, "employees", none, "")

	body := decode(t, rec)
	items, ok := body["employees"].([]any)
	if !ok || len(items) != 0 || body["count"] != float64(0) {
		t.Fatalf("expected empty list with count, got %v", body)
	}
}
