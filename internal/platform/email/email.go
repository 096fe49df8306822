package email

import (
	"context"
	"log/slog"
	"strings"

	"empsync/internal/domain/notifications"
	"empsync/internal/platform/config"
)

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, from, to, subject, body string) error {
	slog.Debug("email delivery disabled", "to", to, "subject", subject)
	return nil
}

// New picks the transport named by EMAIL_PROVIDER. Anything unconfigured
// falls back to a mailer that drops messages.
func New(cfg config.Config) notifications.Mailer {
	switch strings.ToLower(cfg.EmailProvider) {
	case config.EmailProviderSMTP:
		if cfg.SMTPHost != "" {
			return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		}
	case config.EmailProviderMailerSend:
		if cfg.MailerSendAPIKey != "" {
			return NewMailerSendMailer(cfg.MailerSendAPIKey)
		}
	}
	return noopMailer{}
}
