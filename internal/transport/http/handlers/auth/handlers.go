package authhandler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"empsync/internal/domain/auth"
	"empsync/internal/platform/apperr"
	"empsync/internal/transport/http/api"
	"empsync/internal/transport/http/middleware"
	"empsync/internal/transport/http/shared"
)

type Accounts interface {
	Authenticate(ctx context.Context, login, password string) (auth.LoginResult, error)
	Register(ctx context.Context, req auth.RegisterRequest, userType string) (auth.User, error)
	Status(ctx context.Context, userID string) (auth.User, error)
}

type Tokens interface {
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

type Handler struct {
	Accounts Accounts
	Tokens   Tokens
}

func NewHandler(accounts Accounts, tokens Tokens) *Handler {
	return &Handler{Accounts: accounts, Tokens: tokens}
}

// adminOnly guards admin registration whatever REQUIRE_AUTH says: new admins
// are created by an existing admin, the first one by the startup seed.
var adminOnly = middleware.RequireRole(auth.RoleAdmin)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.With(adminOnly).Post("/register/"+auth.UserTypeAdmin, h.handleRegisterAs(auth.UserTypeAdmin))
		r.Post("/register/{userType}", h.handleRegisterAs(""))
		r.Get("/verify-email", h.HandleVerifyEmail)
		r.Post("/resend-verification", h.HandleResendVerification)
		r.Post("/forgot-password", h.HandleForgotPassword)
		r.Post("/reset-password", h.HandleResetPassword)
		r.Get("/status", h.HandleStatus)
		r.Post("/logout", h.HandleLogout)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	login := payload.Username
	if strings.TrimSpace(login) == "" {
		login = payload.Email
	}

	result, err := h.Accounts.Authenticate(r.Context(), login, payload.Password)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Login successful", "auth", result, reqID)
}

// handleRegisterAs registers a userType account; an empty userType is read
// from the route.
func (h *Handler) handleRegisterAs(userType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		var payload auth.RegisterRequest
		if err := shared.DecodeJSON(r, &payload, false); err != nil {
			api.FailErr(w, err, reqID)
			return
		}
		kind := userType
		if kind == "" {
			kind = chi.URLParam(r, "userType")
		}
		user, err := h.Accounts.Register(r.Context(), payload, kind)
		if err != nil {
			api.FailErr(w, err, reqID)
			return
		}
		slog.Info("user registered", "userId", user.ID, "userType", user.UserType, "requestId", reqID)
		api.Created(w, "Registration successful. Please check your email to verify your account.", "user", user, reqID)
	}
}

func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if _, err := h.Tokens.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Email verified successfully. You can now log in.", "", nil, reqID)
}

func decodeEmail(r *http.Request) (string, error) {
	var payload emailRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		return "", err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		return "", apperr.Invalid("invalid_email", "email is required")
	}
	return email, nil
}

func (h *Handler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	email, err := decodeEmail(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if err := h.Tokens.ResendVerification(r.Context(), email); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Verification email sent. Please check your inbox.", "", nil, reqID)
}

// HandleForgotPassword answers the same way whether or not the address has
// an account.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	email, err := decodeEmail(r)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if err := h.Tokens.RequestPasswordReset(r.Context(), email); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "If an account exists for that email, a password reset link has been sent.", "", nil, reqID)
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload resetPasswordRequest
	if err := shared.DecodeJSON(r, &payload, false); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	if err := h.Tokens.ResetPassword(r.Context(), payload.Token, payload.Password, payload.ConfirmPassword); err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "Password reset successfully. You can now log in.", "", nil, reqID)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Message(w, "not authenticated", "user", nil, reqID)
		return
	}
	user, err := h.Accounts.Status(r.Context(), caller.UserID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Message(w, "authenticated", "user", user, reqID)
}

// HandleLogout only acknowledges; tokens are stateless and expire on their own.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Message(w, "Logout successful", "", nil, middleware.GetRequestID(r.Context()))
}
