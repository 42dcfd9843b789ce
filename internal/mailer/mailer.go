package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer delivers transactional email. Delivery is best effort; callers must
// not fail their operation when Send returns an error.
type Mailer interface {
	Send(ctx context.Context, to, subject, plainText, html string) error
}

// Console writes outgoing mail to the log instead of delivering it. Used in
// development and tests.
type Console struct {
	logger zerolog.Logger
}

// NewConsole builds the logging mailer.
func NewConsole(logger zerolog.Logger) *Console {
	return &Console{logger: logger.With().Str("component", "console_mailer").Logger()}
}

// Send logs the message and reports success.
func (m *Console) Send(_ context.Context, to, subject, plainText, _ string) error {
	m.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", plainText).
		Msg("email (console)")

	return nil
}
