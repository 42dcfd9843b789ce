package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sendgrid delivers mail through the SendGrid v3 API.
type Sendgrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendgrid builds the SendGrid mailer.
func NewSendgrid(apiKey, fromName, fromAddress string, logger zerolog.Logger) *Sendgrid {
	return &Sendgrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger.With().Str("component", "sendgrid_mailer").Logger(),
	}
}

// Send delivers a single message. Non-2xx API responses are reported as errors.
func (m *Sendgrid) Send(_ context.Context, to, subject, plainText, html string) error {
	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), plainText, html)

	response, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d", response.StatusCode)
	}

	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("email sent")

	return nil
}
