package email

import "context"

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}
