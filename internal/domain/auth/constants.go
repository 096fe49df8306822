package auth

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"

	UserTypeAdmin    = "admin"
	UserTypeEmployee = "employee"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"

	MinPasswordLength = 8
)

// RoleForUserType maps a registration type onto the role it is granted.
func RoleForUserType(userType string) string {
	if userType == UserTypeAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}
