package performancehandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"empsync/internal/domain/performance"
	"empsync/internal/platform/apperr"
	"empsync/internal/transport/http/api"
	"empsync/internal/transport/http/middleware"
	"empsync/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, r performance.Review) (performance.Review, error)
	Update(ctx context.Context, id string, r performance.Review) (performance.Review, error)
	Submit(ctx context.Context, id string) (performance.Review, error)
	Approve(ctx context.Context, id, approverID string) (performance.Review, error)
	AddEmployeeComments(ctx context.Context, id, comments string) (performance.Review, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (performance.Review, error)
	ByEmployee(ctx context.Context, employeeID string) ([]performance.Review, error)
	ByReviewer(ctx context.Context, reviewerID string) ([]performance.Review, error)
	ByEmployeeAndPeriod(ctx context.Context, employeeID, period string) (performance.Review, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]performance.Review, error)
	Pending(ctx context.Context) ([]performance.Review, error)
	Upcoming(ctx context.Context) ([]performance.Review, error)
	Stats(ctx context.Context) (performance.Stats, error)
	EmployeeStats(ctx context.Context, employeeID string) (performance.EmployeeStats, error)
}

type Handler struct {
	Service Service
	admin   func(http.Handler) http.Handler
}

func NewHandler(service Service, admin func(http.Handler) http.Handler) *Handler {
	if admin == nil {
		admin = middleware.Passthrough
	}
	return &Handler{Service: service, admin: admin}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.Get("/pending", h.handlePending)
		r.Get("/upcoming", h.handleUpcoming)
		r.Get("/stats", h.handleStats)
		r.Get("/date-range", h.handleDateRange)
		r.Get("/employee/{id}", h.handleByEmployee)
		r.Get("/employee/{id}/stats", h.handleEmployeeStats)
		r.Get("/employee/{id}/period/{period}", h.handleByPeriod)
		r.Get("/reviewer/{id}", h.handleByReviewer)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/employee-comments", h.handleEmployeeComments)

		r.Group(func(r chi.Router) {
			r.Use(h.admin)
			r.Post("/", h.handleCreate)
			r.Put("/{id}", h.handleUpdate)
			r.Post("/{id}/submit", h.handleSubmit)
			r.Post("/{id}/approve", h.handleApprove)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

type reviewRequest struct {
	EmployeeID          string `json:"employeeId"`
	ReviewPeriod        string `json:"reviewPeriod"`
	ReviewerID          string `json:"reviewerId"`
	OverallRating       *int   `json:"overallRating"`
	QualityRating       *int   `json:"qualityRating"`
	ProductivityRating  *int   `json:"productivityRating"`
	TeamworkRating      *int   `json:"teamworkRating"`
	CommunicationRating *int   `json:"communicationRating"`
	InitiativeRating    *int   `json:"initiativeRating"`
	Strengths           string `json:"strengths"`
	AreasForImprovement string `json:"areasForImprovement"`
	Goals               string `json:"goals"`
	EmployeeComments    string `json:"employeeComments"`
	ReviewerComments    string `json:"reviewerComments"`
	Status              string `json:"status"`
	NextReviewDate      string `json:"nextReviewDate"`
}

func (req reviewRequest) toReview() (performance.Review, error) {
	review := performance.Review{
		EmployeeID:          req.EmployeeID,
		ReviewPeriod:        req.ReviewPeriod,
		ReviewerID:          req.ReviewerID,
		OverallRating:       req.OverallRating,
		QualityRating:       req.QualityRating,
		ProductivityRating:  req.ProductivityRating,
		TeamworkRating:      req.TeamworkRating,
		CommunicationRating: req.CommunicationRating,
		InitiativeRating:    req.InitiativeRating,
		Strengths:           req.Strengths,
		AreasForImprovement: req.AreasForImprovement,
		Goals:               req.Goals,
		EmployeeComments:    req.EmployeeComments,
		ReviewerComments:    req.ReviewerComments,
		Status:              req.Status,
	}
	if raw := strings.TrimSpace(req.NextReviewDate); raw != "" {
		next, err := shared.ParseDate(raw)
		if err != nil {
			return performance.Review{}, apperr.Invalid("invalid_review", "nextReviewDate must be a valid date in YYYY-MM-DD format")
		}
		review.NextReviewDate = &next
	}
	return review, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload reviewRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	review, err := payload.toReview()
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	created, err := h.Service.Create(r.Context(), review)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Created(w, "Performance review created successfully", "performance", created, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload reviewRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	review, err := payload.toReview()
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), review)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Performance review updated successfully", "performance", updated, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	review, err := h.Service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Performance review submitted successfully", "performance", review, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	review, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("approverId"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Performance review approved successfully", "performance", review, reqID)
}

func (h *Handler) handleEmployeeComments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		Comments string `json:"comments"`
	}
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	review, err := h.Service.AddEmployeeComments(r.Context(), chi.URLParam(r, "id"), payload.Comments)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Employee comments added successfully", "performance", review, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Performance review deleted successfully", "", nil, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	review, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "performance", review, reqID)
}

func (h *Handler) handleByEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	reviews, err := h.Service.ByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "performances", reviews, reqID)
}

func (h *Handler) handleByReviewer(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	reviews, err := h.Service.ByReviewer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "performances", reviews, reqID)
}

func (h *Handler) handleByPeriod(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	review, err := h.Service.ByEmployeeAndPeriod(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "period"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "performance", review, reqID)
}

// handleDateRange treats end as inclusive of the whole day.
func (h *Handler) handleDateRange(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	start, end := v.DateRange(r)
	if v.Reject(w, reqID) {
		return
	}
	reviews, err := h.Service.ByDateRange(r.Context(), start, shared.EndOfDay(end))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "performances", reviews, reqID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	reviews, err := h.Service.Pending(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "performances", reviews, reqID)
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	reviews, err := h.Service.Upcoming(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "performances", reviews, reqID)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "stats", stats, reqID)
}

func (h *Handler) handleEmployeeStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stats, err := h.Service.EmployeeStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "stats", stats, reqID)
}
