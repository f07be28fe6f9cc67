package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const sendTimeout = 5 * time.Second

// SendAsync delivers message in the background. The send outlives the
// request that triggered it but observes ctx values.
func SendAsync(ctx context.Context, client EmailSender, recipient string, message Message, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || message.Subject == "" || message.Body == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, sendTimeout)
		defer cancel()
		if err := client.Send(sendCtx, recipient, message.Subject, message.Body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Str("subject", message.Subject).Msg("Failed to send email")
		}
	}()
}

// SendNow delivers message and waits for the result.
func SendNow(ctx context.Context, client EmailSender, recipient string, message Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return client.Send(sendCtx, strings.TrimSpace(recipient), message.Subject, message.Body)
}
