package email

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type mailerSendMailer struct {
	client *mailersend.Mailersend
}

func NewMailerSendMailer(apiKey string) *mailerSendMailer {
	return &mailerSendMailer{client: mailersend.NewMailersend(apiKey)}
}

func (m *mailerSendMailer) withHTTPClient(c *http.Client) *mailerSendMailer {
	m.client.SetClient(c)
	return m
}

func (m *mailerSendMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(mailersend.From{Email: from})
	msg.SetRecipients([]mailersend.Recipient{{Email: to}})
	msg.SetSubject(subject)
	msg.SetHTML(body)

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
