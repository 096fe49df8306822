package auth

import "time"

type User struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"-"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	UserType           string     `json:"userType"`
	Department         string     `json:"department,omitempty"`
	Position           string     `json:"position,omitempty"`
	PhoneNumber        string     `json:"phoneNumber,omitempty"`
	EmployeeRef        string     `json:"employeeId,omitempty"`
	Status             string     `json:"status"`
	EmailVerified      bool       `json:"emailVerified"`
	VerificationSentAt *time.Time `json:"verificationSentAt,omitempty"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Department      string `json:"department"`
	Position        string `json:"position"`
	PhoneNumber     string `json:"phoneNumber"`
	EmployeeID      string `json:"employeeId"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
