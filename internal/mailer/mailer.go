package mailer

import "context"

// Mailer delivers transactional mail. Workflow code depends on this
// interface only; delivery mechanics stay behind it.
type Mailer interface {
	Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error
}
