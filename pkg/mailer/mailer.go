package mailer

import (
	"context"
	"fmt"
	"strings"
)

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the minimal shape required to attempt delivery.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" || !strings.Contains(p.SendTo, "@") {
		return fmt.Errorf("%w: recipient address is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// Config holds mailer configuration. Postmark tokens are optional so
// development environments can run on the DevSender alone.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	// BaseURL is prepended to magic-link and reset-link paths.
	BaseURL string `env:"MAILER_BASE_URL" envDefault:"http://localhost:8080"`
}
