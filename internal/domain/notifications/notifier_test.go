package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type sent struct {
	from, to, subject, body string
}

type recordingMailer struct {
	sent []sent
	err  error
}

func (m *recordingMailer) Send(_ context.Context, from, to, subject, body string) error {
	m.sent = append(m.sent, sent{from, to, subject, body})
	return m.err
}

func TestSendVerificationBuildsLink(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "no-reply@empsync.local", "https://app.example.com/", 24)

	if err := n.SendVerification(context.Background(), "ada@example.com", "Ada", "abc+/="); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.from != "no-reply@empsync.local" || msg.to != "ada@example.com" {
		t.Fatalf("unexpected envelope %+v", msg)
	}
	if !strings.Contains(msg.body, "https://app.example.com/verify-email?token=abc%2B%2F%3D") {
		t.Fatalf("expected escaped verification link, got %s", msg.body)
	}
	if !strings.Contains(msg.body, "24 hours") || !strings.Contains(msg.body, "Hello Ada") {
		t.Fatalf("unexpected body %s", msg.body)
	}
}

func TestTemplatesEscapeNames(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "from@x", "http://localhost:3000", 1)
	if err := n.SendWelcome(context.Background(), "to@x", "<script>x</script>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if strings.Contains(mailer.sent[0].body, "<script>") {
		t.Fatalf("expected name to be escaped, got %s", mailer.sent[0].body)
	}
}

func TestPasswordResetPropagatesMailerError(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	n := NewNotifier(mailer, "from@x", "http://localhost:3000", 24)
	err := n.SendPasswordReset(context.Background(), "to@x", "", "tok")
	if err == nil {
		t.Fatal("expected mailer error")
	}
	if !strings.Contains(mailer.sent[0].body, "Hello there") || !strings.Contains(mailer.sent[0].body, "/reset-password?token=tok") {
		t.Fatalf("unexpected body %s", mailer.sent[0].body)
	}
}
