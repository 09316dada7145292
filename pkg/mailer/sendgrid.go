package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/divya8341883853/clothstore-backend/pkg/config"
)

// Sender is the outbound email surface consumed by notification handlers.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error
}

// Client sends transactional email through SendGrid.
type Client struct {
	sg        *sendgrid.Client
	fromEmail string
	fromName  string
}

// New builds a SendGrid-backed mailer.
func New(cfg config.SendgridConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &Client{
		sg:        sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}, nil
}

// Send delivers a single email. Responses with a non-2xx status are errors.
func (c *Client) Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, textBody, htmlBody)

	resp, err := c.sg.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}
	return nil
}
