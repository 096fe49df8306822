package notifications

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"strings"
)

// Notifier renders account emails and hands them to a Mailer.
type Notifier struct {
	mailer   Mailer
	from     string
	baseURL  string
	ttlHours int
}

func NewNotifier(mailer Mailer, from, baseURL string, ttlHours int) *Notifier {
	return &Notifier{
		mailer:   mailer,
		from:     from,
		baseURL:  strings.TrimRight(baseURL, "/"),
		ttlHours: ttlHours,
	}
}

func (n *Notifier) link(path, token string) string {
	if token == "" {
		return n.baseURL + path
	}
	return n.baseURL + path + "?token=" + url.QueryEscape(token)
}

func greeting(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "there"
}

func (n *Notifier) send(ctx context.Context, to, subject string, tmpl *template.Template, msg message) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg); err != nil {
		return err
	}
	return n.mailer.Send(ctx, n.from, to, subject, body.String())
}

func (n *Notifier) SendVerification(ctx context.Context, to, name, token string) error {
	return n.send(ctx, to, "Verify your EmpSync email", verificationTmpl, message{
		Name:     greeting(name),
		Link:     n.link("/verify-email", token),
		TTLHours: n.ttlHours,
	})
}

func (n *Notifier) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return n.send(ctx, to, "Reset your EmpSync password", passwordResetTmpl, message{
		Name:     greeting(name),
		Link:     n.link("/reset-password", token),
		TTLHours: n.ttlHours,
	})
}

func (n *Notifier) SendWelcome(ctx context.Context, to, name string) error {
	return n.send(ctx, to, "Welcome to EmpSync", welcomeTmpl, message{
		Name: greeting(name),
		Link: n.link("/", ""),
	})
}
