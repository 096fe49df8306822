package employeehandler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"empsync/internal/domain/employee"
	"empsync/internal/domain/payroll"
	"empsync/internal/platform/apperr"
	"empsync/internal/transport/http/api"
	"empsync/internal/transport/http/middleware"
	"empsync/internal/transport/http/shared"
)

const maxPageSize = 500

type Service interface {
	Create(ctx context.Context, emp employee.Employee) (employee.Employee, error)
	BulkCreate(ctx context.Context, emps []employee.Employee) ([]employee.Employee, error)
	Get(ctx context.Context, id string) (employee.Employee, error)
	List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error)
	SearchByName(ctx context.Context, name string) ([]employee.Employee, error)
	Active(ctx context.Context) ([]employee.Employee, error)
	Update(ctx context.Context, id string, emp employee.Employee) (employee.Employee, error)
	Patch(ctx context.Context, id string, patch employee.Patch) (employee.Employee, error)
	Delete(ctx context.Context, id string) error
	Departments(ctx context.Context) ([]string, error)
	Positions(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	DepartmentSummaries(ctx context.Context) ([]employee.DepartmentSummary, error)
	DepartmentSummary(ctx context.Context, name string) (employee.DepartmentSummary, error)
}

type Handler struct {
	Service Service
	admin   func(http.Handler) http.Handler
}

// NewHandler wires the employee and department routes. admin guards the
// mutating routes; nil leaves them open.
func NewHandler(service Service, admin func(http.Handler) http.Handler) *Handler {
	if admin == nil {
		admin = middleware.Passthrough
	}
	return &Handler{Service: service, admin: admin}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/search", h.handleSearch)
		r.Get("/departments", h.handleDepartmentNames)
		r.Get("/positions", h.handlePositions)
		r.Get("/count", h.handleCount)
		r.Get("/active", h.handleActive)
		r.Get("/{id}", h.handleGet)
		r.Get("/{id}/deductions.pdf", h.handleDeductionStatement)

		r.Group(func(r chi.Router) {
			r.Use(h.admin)
			r.Post("/", h.handleCreate)
			r.Post("/bulk", h.handleBulkCreate)
			r.Put("/{id}", h.handleUpdate)
			r.Patch("/{id}", h.handlePatch)
			r.Delete("/{id}", h.handleDelete)
		})
	})
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleDepartmentSummaries)
		r.Get("/{name}", h.handleDepartmentSummary)
	})
}

type employeeRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	Gender     string          `json:"gender"`
	JoinDate   string          `json:"joinDate"`
	Address    string          `json:"address"`
	Status     string          `json:"status"`
}

func (req employeeRequest) toEmployee() (employee.Employee, error) {
	emp := employee.Employee{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		Gender:     req.Gender,
		Address:    req.Address,
		Status:     req.Status,
	}
	joinDate, err := parseJoinDate(req.JoinDate)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.JoinDate = joinDate
	return emp, nil
}

type patchRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email"`
	Phone      *string          `json:"phone"`
	Department *string          `json:"department"`
	Position   *string          `json:"position"`
	Salary     *decimal.Decimal `json:"salary"`
	Gender     *string          `json:"gender"`
	JoinDate   *string          `json:"joinDate"`
	Address    *string          `json:"address"`
	Status     *string          `json:"status"`
}

func (req patchRequest) toPatch() (employee.Patch, error) {
	patch := employee.Patch{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		Gender:     req.Gender,
		Address:    req.Address,
		Status:     req.Status,
	}
	if req.JoinDate != nil {
		joinDate, err := parseJoinDate(*req.JoinDate)
		if err != nil {
			return employee.Patch{}, err
		}
		if joinDate == nil {
			return employee.Patch{}, apperr.Invalid("invalid_employee", "joinDate must not be empty")
		}
		patch.JoinDate = joinDate
	}
	return patch, nil
}

func parseJoinDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := shared.ParseDate(raw)
	if err != nil {
		return nil, apperr.Invalid("invalid_employee", "joinDate must be a valid date in YYYY-MM-DD format")
	}
	return &parsed, nil
}

func parseFilter(r *http.Request) (employee.Filter, error) {
	q := r.URL.Query()
	page, err := shared.ParsePagination(r, 0, maxPageSize)
	if err != nil {
		return employee.Filter{}, err
	}
	filter := employee.Filter{
		Department: strings.TrimSpace(q.Get("department")),
		Gender:     strings.TrimSpace(q.Get("gender")),
		Status:     strings.TrimSpace(q.Get("status")),
		Position:   strings.TrimSpace(q.Get("position")),
		Name:       strings.TrimSpace(q.Get("name")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	for key, dst := range map[string]**decimal.Decimal{"minSalary": &filter.MinSalary, "maxSalary": &filter.MaxSalary} {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return employee.Filter{}, apperr.Invalid("invalid_filter", key+" must be a number")
		}
		*dst = &value
	}
	return filter, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, err := parseFilter(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emps, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "employees", emps, reqID)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emps, err := h.Service.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "employees", emps, reqID)
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emps, err := h.Service.Active(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "employees", emps, reqID)
}

func (h *Handler) handleDepartmentNames(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	names, err := h.Service.Departments(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "departments", names, reqID)
}

func (h *Handler) handlePositions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	positions, err := h.Service.Positions(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "positions", positions, reqID)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	count, err := h.Service.Count(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "totalEmployees", count, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "employee", emp, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emp, err := payload.toEmployee()
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	created, err := h.Service.Create(r.Context(), emp)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	slog.Info("employee created", "employeeId", created.ID, "requestId", reqID)
	api.Created(w, "Employee created successfully", "employee", created, reqID)
}

func (h *Handler) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload []employeeRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emps := make([]employee.Employee, 0, len(payload))
	for i, item := range payload {
		emp, err := item.toEmployee()
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_employee", "record "+strconv.Itoa(i)+": "+err.Error(), reqID)
			return
		}
		emps = append(emps, emp)
	}
	created, err := h.Service.BulkCreate(r.Context(), emps)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	count := len(created)
	api.WriteJSON(w, http.StatusCreated, api.Envelope{
		Success:   true,
		Message:   strconv.Itoa(count) + " employees created successfully",
		Key:       "employees",
		Payload:   created,
		Count:     &count,
		RequestID: reqID,
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	emp, err := payload.toEmployee()
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), emp)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Employee updated successfully", "employee", updated, reqID)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload patchRequest
	if err := shared.DecodeJSON(r, &payload, true); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	patch, err := payload.toPatch()
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	updated, err := h.Service.Patch(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Employee updated successfully", "employee", updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	slog.Info("employee deleted", "employeeId", id, "requestId", reqID)
	api.Message(w, "Employee deleted successfully", "", nil, reqID)
}

func (h *Handler) handleDeductionStatement(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	var buf bytes.Buffer
	err = payroll.WriteStatementPDF(&buf, payroll.Statement{
		EmployeeName: emp.Name,
		Email:        emp.Email,
		Department:   emp.Department,
		Position:     emp.Position,
		Salary:       emp.Salary,
		GeneratedAt:  time.Now(),
	})
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="deductions-`+emp.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("write statement failed", "err", err, "requestId", reqID)
	}
}

func (h *Handler) handleDepartmentSummaries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	summaries, err := h.Service.DepartmentSummaries(r.Context())
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.List(w, "departments", summaries, reqID)
}

func (h *Handler) handleDepartmentSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	summary, err := h.Service.DepartmentSummary(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, "department", summary, reqID)
}
