package notifications

import "context"

type Mailer interface {
	Send(ctx context.Context, from, to, subject, htmlBody string) error
}
