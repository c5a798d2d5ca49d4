package email

import (
	"context"
	"fmt"
)

// EmailSender sends a single prepared HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams holds the content of a single outgoing email.
type SendEmailParams struct {
	SendTo   string `json:"send_to" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	BodyHTML string `json:"body_html" validate:"required"`
	Tag      string `json:"tag,omitempty"`
}

// Validate reports missing or malformed parameters as ErrInvalidParams.
func (p SendEmailParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// SentMail is the read-only result of a successful send.
type SentMail interface {
	// MessageID returns the Message-ID header value, angle brackets included.
	MessageID() string
	// ExportAsMimeMessage returns the full RFC 5322 message.
	ExportAsMimeMessage() string
}
