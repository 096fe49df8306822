package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// VerificationSender issues an email verification token for a new account and
// mails it to the user.
type VerificationSender interface {
	SendVerification(ctx context.Context, userID, email, name string) error
}

type WelcomeSender interface {
	SendWelcome(ctx context.Context, to, name string) error
}

type Options struct {
	JWTSecret            string
	JWTTTL               time.Duration
	VerificationRequired bool
}

type Service struct {
	store    StoreAPI
	opts     Options
	verifier VerificationSender
	welcome  WelcomeSender
	observe  func(result string)
	now      func() time.Time
	check    func(hash, password string) error
}

func NewService(store StoreAPI, opts Options, verifier VerificationSender, welcome WelcomeSender) *Service {
	return &Service{
		store:    store,
		opts:     opts,
		verifier: verifier,
		welcome:  welcome,
		observe:  func(string) {},
		now:      time.Now,
		check:    CheckPassword,
	}
}

// WithLoginObserver registers fn to be told the outcome of every login attempt.
func (s *Service) WithLoginObserver(fn func(result string)) *Service {
	if fn != nil {
		s.observe = fn
	}
	return s
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (LoginResult, error) {
	result, outcome, err := s.authenticate(ctx, login, password)
	s.observe(outcome)
	return result, err
}

func (s *Service) authenticate(ctx context.Context, login, password string) (LoginResult, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return LoginResult{}, "invalid", ErrInvalidCredentials
	}
	user, err := s.store.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = s.check(dummyHash(), password)
			return LoginResult{}, "invalid", ErrInvalidCredentials
		}
		return LoginResult{}, "error", err
	}
	if s.check(user.PasswordHash, password) != nil {
		return LoginResult{}, "invalid", ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		return LoginResult{}, "inactive", ErrAccountInactive
	}
	if s.opts.VerificationRequired && !user.EmailVerified {
		return LoginResult{}, "unverified", ErrEmailNotVerified
	}

	now := s.now()
	token, err := GenerateToken(s.opts.JWTSecret, Claims{UserID: user.ID, Username: user.Username, Role: user.Role}, s.opts.JWTTTL)
	if err != nil {
		return LoginResult{}, "error", err
	}
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	} else {
		user.LastLogin = &now
	}

	if user.EmailVerified && user.VerificationSentAt != nil && s.welcome != nil {
		if err := s.welcome.SendWelcome(ctx, user.Email, user.Name); err != nil {
			slog.Warn("welcome email failed", "userId", user.ID, "err", err)
		}
	}
	return LoginResult{Token: token, ExpiresAt: now.Add(s.opts.JWTTTL), User: user}, "success", nil
}

func normalizeRegistration(req *RegisterRequest) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Department = strings.TrimSpace(req.Department)
	req.Position = strings.TrimSpace(req.Position)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
}

// Register creates an unverified account and mails a verification link. A
// failed email does not fail the registration.
func (s *Service) Register(ctx context.Context, req RegisterRequest, userType string) (User, error) {
	userType = strings.ToLower(strings.TrimSpace(userType))
	if userType != UserTypeAdmin && userType != UserTypeEmployee {
		return User{}, ErrUnknownUserType
	}
	normalizeRegistration(&req)
	if req.Username == "" {
		return User{}, invalid("username is required")
	}
	if req.Email == "" {
		return User{}, invalid("email is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return User{}, invalid("email must be a valid address")
	}
	if err := ValidatePassword(req.Password, req.ConfirmPassword); err != nil {
		return User{}, err
	}

	taken, err := s.store.UsernameTaken(ctx, req.Username)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, ErrUsernameTaken
	}
	if userType == UserTypeAdmin {
		taken, err := s.store.EmailTaken(ctx, req.Email)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, ErrEmailTaken
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}
	user := User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Name:         req.Name,
		Role:         RoleForUserType(userType),
		UserType:     userType,
		Status:       StatusActive,
	}
	if userType == UserTypeEmployee {
		user.Department = req.Department
		user.Position = req.Position
		user.PhoneNumber = req.PhoneNumber
		user.EmployeeRef = req.EmployeeID
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	if s.verifier != nil {
		if err := s.verifier.SendVerification(ctx, created.ID, created.Email, created.Name); err != nil {
			slog.Warn("verification email failed", "userId", created.ID, "err", err)
		}
	}
	return created, nil
}

// Status returns the profile of the user a token was issued to.
func (s *Service) Status(ctx context.Context, userID string) (User, error) {
	return s.store.Get(ctx, userID)
}

// ParseAccessToken validates a bearer token and returns its claims.
func (s *Service) ParseAccessToken(token string) (*Claims, error) {
	claims, err := ParseToken(s.opts.JWTSecret, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
