package smtp

import "github.com/dmitrymomot/smtpmail/core/email"

// SentMail is the result of a successful Send.
type SentMail struct {
	messageID string
	mime      string
}

var _ email.SentMail = (*SentMail)(nil)

// MessageID returns the Message-ID header of the delivered message.
func (s *SentMail) MessageID() string { return s.messageID }

// ExportAsMimeMessage returns the full RFC 5322 text of the message.
func (s *SentMail) ExportAsMimeMessage() string { return s.mime }
