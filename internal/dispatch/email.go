package dispatch

import (
	"context"
	"fmt"

	"reservas/internal/config"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is the payload handed to the send capability.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// EmailSender is the outbound send capability. Implementations can be
// swapped (SendGrid, sandbox stub) without changing the dispatcher.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SendGridSender sends confirmation emails through the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zerolog.Logger
}

func NewSendGridSender(cfg config.SendGridConfig, logger *zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.From,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("sendgrid client is not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	messageID := ""
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	s.logger.Info().
		Str("to", msg.To).
		Int("status", response.StatusCode).
		Str("message_id", messageID).
		Msg("confirmation email sent")

	return nil
}

// StubSender logs instead of sending. Used in sandbox deployments and tests.
type StubSender struct {
	logger *zerolog.Logger
}

func NewStubSender(logger *zerolog.Logger) *StubSender {
	return &StubSender{logger: logger}
}

func (s *StubSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("sandbox: email not sent")
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubSender)(nil)
)
