package verification

const (
	TypeEmailVerification = "EMAIL_VERIFICATION"
	TypePasswordReset     = "PASSWORD_RESET"

	tokenBytes = 32
)
