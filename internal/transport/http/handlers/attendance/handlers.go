package attendancehandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"empsync/internal/domain/attendance"
	"empsync/internal/platform/apperr"
	"empsync/internal/transport/http/api"
	"empsync/internal/transport/http/middleware"
	"empsync/internal/transport/http/shared"
)

type Service interface {
	CheckIn(ctx context.Context, employeeID, location, notes string) (attendance.Attendance, error)
	CheckOut(ctx context.Context, employeeID, location, notes string) (attendance.Attendance, error)
	MarkAbsent(ctx context.Context, employeeID, notes string) (attendance.Attendance, error)
	ByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error)
	ByEmployeeDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error)
	ActiveForEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error)
	Active(ctx context.Context) ([]attendance.Attendance, error)
	EmployeeStats(ctx context.Context, employeeID string, days int) (attendance.EmployeeStats, error)
	Stats(ctx context.Context, days int) (attendance.Stats, error)
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Post("/mark-absent", h.handleMarkAbsent)
		r.Get("/employee/{id}", h.handleByEmployee)
		r.Get("/employee/{id}/active", h.handleActiveForEmployee)
		r.Get("/employee/{id}/date-range", h.handleEmployeeDateRange)
		r.Get("/employee/{id}/stats", h.handleEmployeeStats)
		r.Get("/date-range", h.handleDateRange)
		r.Get("/active", h.handleActive)
		r.Get("/stats", h.handleStats)
	})
}

type markRequest struct {
	EmployeeID string `json:"employeeId"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

func decodeMark(r *http.Request) (markRequest, error) {
	var payload markRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		return markRequest{}, err
	}
	payload.EmployeeID = strings.TrimSpace(payload.EmployeeID)
	if payload.EmployeeID == "" {
		return markRequest{}, apperr.Invalid("invalid_attendance", "employeeId is required")
	}
	return payload, nil
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, err := decodeMark(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	rec, err := h.Service.CheckIn(r.Context(), payload.EmployeeID, payload.Location, payload.Notes)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, "Check-in recorded successfully", "attendance", rec, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, err := decodeMark(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	rec, err := h.Service.CheckOut(r.Context(), payload.EmployeeID, payload.Location, payload.Notes)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Check-out recorded successfully", "attendance", rec, reqID)
}

func (h *Handler) handleMarkAbsent(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, err := decodeMark(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	rec, err := h.Service.MarkAbsent(r.Context(), payload.EmployeeID, payload.Notes)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, "Employee marked absent", "attendance", rec, reqID)
}

func (h *Handler) handleByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	records, err := h.Service.ByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "attendances", records, reqID)
}

func (h *Handler) handleActiveForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	records, err := h.Service.ActiveForEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "attendances", records, reqID)
}

func (h *Handler) handleEmployeeDateRange(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	start, end := v.DateRange(r)
	if v.Reject(w, reqID) {
		return
	}
	records, err := h.Service.ByEmployeeDateRange(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "attendances", records, reqID)
}

func (h *Handler) handleDateRange(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	start, end := v.DateRange(r)
	if v.Reject(w, reqID) {
		return
	}
	records, err := h.Service.ByDateRange(r.Context(), start, end)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "attendances", records, reqID)
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	records, err := h.Service.Active(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "attendances", records, reqID)
}

// statsDays reads the lookback window, defaulting to attendance.DefaultStatsDays.
func statsDays(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("days"))
	if raw == "" {
		return attendance.DefaultStatsDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, attendance.ErrInvalidDays
	}
	return days, nil
}

func (h *Handler) handleEmployeeStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	days, err := statsDays(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	stats, err := h.Service.EmployeeStats(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "stats", stats, reqID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	days, err := statsDays(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	stats, err := h.Service.Stats(r.Context(), days)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "stats", stats, reqID)
}
