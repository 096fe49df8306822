package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	d dialer
}

func NewSMTPMailer(host string, port int, user, password string) *smtpMailer {
	d := gomail.NewDialer(host, port, user, password)
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	// Port 465 speaks TLS from the first byte; everything else upgrades with STARTTLS.
	d.SSL = port == 465
	return &smtpMailer{d: d}
}

func (s *smtpMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	// gomail has no context support, so honour cancellation around the dial.
	done := make(chan error, 1)
	go func() { done <- s.d.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
