package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"
)

// Kind identifies which transactional email to build.
type Kind string

const (
	KindEmailVerification Kind = "email_verification"
	KindMagicLink         Kind = "magic_link"
	KindPasswordReset     Kind = "password_reset"
)

// Payload carries the per-message data. Token is the opaque token value to
// embed as a code or link.
type Payload struct {
	Token string
}

// Dispatcher builds and sends the transactional emails of the
// authentication flows.
type Dispatcher struct {
	sender  EmailSender
	baseURL string
}

// NewDispatcher creates a dispatcher delivering through the given sender.
// baseURL is the public origin links point back to.
func NewDispatcher(sender EmailSender, baseURL string) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		baseURL: baseURL,
	}
}

// Send builds the message for the kind and delivers it to the recipient.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, recipient string, payload Payload) error {
	params, err := d.build(kind, recipient, payload)
	if err != nil {
		return err
	}
	return d.sender.SendEmail(ctx, params)
}

func (d *Dispatcher) build(kind Kind, recipient string, payload Payload) (SendEmailParams, error) {
	switch kind {
	case KindEmailVerification:
		return SendEmailParams{
			SendTo:  recipient,
			Subject: "Confirm your email address",
			BodyHTML: fmt.Sprintf(
				"<p>Your confirmation code:</p><p><strong>%s</strong></p><p>This code expires shortly. If you did not request it, you can ignore this email.</p>",
				html.EscapeString(payload.Token),
			),
			Tag: string(kind),
		}, nil
	case KindMagicLink:
		link := d.link("/login/magic-link", payload.Token)
		return SendEmailParams{
			SendTo:  recipient,
			Subject: "Your sign-in link",
			BodyHTML: fmt.Sprintf(
				"<p>Click the link below to sign in:</p><p><a href=%q>%s</a></p><p>The link works once and expires shortly.</p>",
				link, html.EscapeString(link),
			),
			Tag: string(kind),
		}, nil
	case KindPasswordReset:
		link := d.link("/reset-password", payload.Token)
		return SendEmailParams{
			SendTo:  recipient,
			Subject: "Reset your password",
			BodyHTML: fmt.Sprintf(
				"<p>Click the link below to choose a new password:</p><p><a href=%q>%s</a></p><p>If you did not request a reset, you can ignore this email.</p>",
				link, html.EscapeString(link),
			),
			Tag: string(kind),
		}, nil
	default:
		return SendEmailParams{}, fmt.Errorf("%w: %q", ErrUnknownMailKind, kind)
	}
}

func (d *Dispatcher) link(path, token string) string {
	return d.baseURL + path + "?token=" + url.QueryEscape(token)
}
