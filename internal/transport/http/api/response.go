package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"empsync/internal/platform/apperr"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the response body shared by every route. The payload is
// written under Key so clients read e.g. "employee" or "reviews" rather than
// a generic data field.
type Envelope struct {
	Success   bool
	Message   string
	Key       string
	Payload   any
	Count     *int
	Error     *Error
	RequestID string
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	out := map[string]any{"success": e.Success}
	if e.Message != "" {
		out["message"] = e.Message
	}
	if e.Key != "" {
		out[e.Key] = e.Payload
	}
	if e.Count != nil {
		out["count"] = *e.Count
	}
	if e.Error != nil {
		out["error"] = e.Error
	}
	if e.RequestID != "" {
		out["requestId"] = e.RequestID
	}
	return json.Marshal(out)
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, key string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Key: key, Payload: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, message, key string, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Key: key, Payload: data, RequestID: requestID})
}

// List writes a collection under key together with its length.
func List[T any](w http.ResponseWriter, key string, items []T, requestID string) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Key: key, Payload: items, Count: &count, RequestID: requestID})
}

// Message answers 200 with a human readable message and an optional payload.
func Message(w http.ResponseWriter, message, key string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Key: key, Payload: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailErr maps an error to its HTTP status. Errors outside the apperr
// taxonomy are logged and answered with a generic 500.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || errors.Is(err, apperr.ErrInternal) {
		slog.Error("request failed", "err", err, "requestId", requestID)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	Fail(w, statusFor(err), appErr.Code, err.Error(), requestID)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
