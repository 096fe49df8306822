package notifications

import "html/template"

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email address</h2>
  <p>Hello {{.Name}},</p>
  <p>Thanks for registering. Please confirm your email address by following the link below.</p>
  <p><a href="{{.Link}}" style="background: #2563eb; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Verify email</a></p>
  <p>This link expires in {{.TTLHours}} hours. If you did not create an account you can ignore this email.</p>
</body>
</html>`))

	passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>Hello {{.Name}},</p>
  <p>We received a request to reset your password.</p>
  <p><a href="{{.Link}}" style="background: #2563eb; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Choose a new password</a></p>
  <p>This link expires in {{.TTLHours}} hours. If you did not ask for a reset, no action is needed.</p>
</body>
</html>`))

	welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome back, {{.Name}}</h2>
  <p>You have signed in to EmpSync.</p>
  <p><a href="{{.Link}}">Open EmpSync</a></p>
</body>
</html>`))
)

type message struct {
	Name     string
	Link     string
	TTLHours int
}
