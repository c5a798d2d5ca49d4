package smtp

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/smtpmail/core/content"
	"github.com/dmitrymomot/smtpmail/core/email"
	"github.com/dmitrymomot/smtpmail/core/logger"
)

type mailState int

const (
	stateConfiguring mailState = iota
	stateSent
	stateFailed
)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string
	Name  string
}

// Recipient is an envelope recipient in insertion order.
type Recipient struct {
	Address
	Type email.RecipientType
}

// Attachment is a registered attachment.
type Attachment struct {
	Path     string
	Filename string
	MimeType string
	Encoding string
}

// Mail composes one message and sends it once. Every setter is validated
// by the transport right away. After Send, successful or not, the mail is
// consumed and all further calls fail with email.ErrMailConsumed.
// A Mail is not safe for concurrent use.
type Mail struct {
	transport Transport
	log       *slog.Logger
	metrics   *Metrics

	state       mailState
	sender      *Address
	recipients  []Recipient
	subject     string
	body        email.Body
	attachments []Attachment
	releasable  content.ReleaseSet
}

func (m *Mail) ensureConfiguring(op string) error {
	if m.state != stateConfiguring {
		return &email.OperationError{Op: op, Err: email.ErrMailConsumed}
	}
	return nil
}

// WithSender sets the From address, replacing any previous one.
func (m *Mail) WithSender(address, name string) error {
	if err := m.ensureConfiguring("set sender"); err != nil {
		return err
	}
	if err := protectedDo("set sender", func() error {
		return m.transport.SetFrom(address, name)
	}); err != nil {
		return err
	}

	m.sender = &Address{Email: address, Name: name}
	return nil
}

// WithRecipient appends a recipient of the given type.
func (m *Mail) WithRecipient(address, name string, kind email.RecipientType) error {
	if err := m.ensureConfiguring("add recipient"); err != nil {
		return err
	}

	var add func(address, name string) error
	switch kind {
	case email.RecipientTo:
		add = m.transport.AddTo
	case email.RecipientCc:
		add = m.transport.AddCc
	case email.RecipientBcc:
		add = m.transport.AddBcc
	default:
		return email.NewUnsupportedValue(kind, "recipient type")
	}

	if err := protectedDo("add recipient", func() error {
		return add(address, name)
	}); err != nil {
		return err
	}

	m.recipients = append(m.recipients, Recipient{Address: Address{Email: address, Name: name}, Type: kind})
	return nil
}

// WithSubject sets the subject line.
func (m *Mail) WithSubject(subject string) {
	if m.state != stateConfiguring {
		return
	}
	m.transport.SetSubject(subject)
	m.subject = subject
}

// WithBody sets the body, replacing any previous one. HTML bodies are sent
// together with a plain-text alternative derived from the markup.
func (m *Mail) WithBody(body email.Body) error {
	if err := m.ensureConfiguring("set body"); err != nil {
		return err
	}

	var text, alt string
	var html bool
	switch b := body.(type) {
	case email.HTMLBody:
		text, alt, html = b.HTML, email.HTMLToText(b.HTML), true
	case *email.HTMLBody:
		if b == nil {
			return email.NewUnsupportedValue(body, "mail body")
		}
		text, alt, html = b.HTML, email.HTMLToText(b.HTML), true
	case email.PlaintextBody:
		text = b.Text
	case *email.PlaintextBody:
		if b == nil {
			return email.NewUnsupportedValue(body, "mail body")
		}
		text = b.Text
	default:
		return email.NewUnsupportedValue(body, "mail body")
	}

	if err := protectedDo("set body", func() error {
		m.transport.SetBody(text, alt, html)
		return nil
	}); err != nil {
		return err
	}

	m.body = body
	return nil
}

// WithAttachment attaches c, base64 encoded. In-memory content is copied to
// a temporary file that lives until Send returns.
func (m *Mail) WithAttachment(c content.Content) error {
	if err := m.ensureConfiguring("add attachment"); err != nil {
		return err
	}

	type resolved struct {
		fsc        content.FileSystemAccessible
		releasable bool
	}
	r, err := protectedRun("resolve attachment", func() (resolved, error) {
		fsc, releasable, err := content.FileSystemAccessibleOf(c)
		return resolved{fsc: fsc, releasable: releasable}, err
	})
	if err != nil {
		return err
	}

	a := Attachment{
		Path:     r.fsc.FileSystemPath(),
		Filename: r.fsc.Filename(),
		MimeType: r.fsc.MimeType(),
		Encoding: EncodingBase64,
	}
	if err := protectedDo("add attachment", func() error {
		return m.transport.AddAttachment(a.Path, a.Filename, a.Encoding, a.MimeType)
	}); err != nil {
		if r.releasable {
			if rel, ok := r.fsc.(content.Releasable); ok {
				if relErr := rel.Release(); relErr != nil {
					m.log.Warn("failed to release attachment", logger.Component("smtp"), logger.Error(relErr))
				}
			}
		}
		return err
	}

	m.attachments = append(m.attachments, a)
	if r.releasable {
		m.releasable.AddIfReleasable(r.fsc)
	}
	return nil
}

// Send delivers the message. It is the only way out of the configuring state.
//
// A transport failure is returned as email.ErrOperationFailed with the cause
// attached; a message the server did not accept is returned as
// email.ErrSendOperationFailed carrying the transport's diagnostic.
// Temporary attachment files are released on every path.
func (m *Mail) Send(ctx context.Context) (*SentMail, error) {
	if err := m.ensureConfiguring("send mail"); err != nil {
		return nil, err
	}
	m.state = stateFailed
	defer m.releaseAttachments()

	start := time.Now()
	ok, err := protectedRun("send mail", func() (bool, error) {
		return m.transport.Send(ctx)
	})
	if err != nil {
		m.finish(ctx, resultFailed, start, err)
		return nil, err
	}
	if !ok {
		err := email.NewSendOperationFailed(m.transport.ErrorInfo())
		m.finish(ctx, resultRejected, start, err)
		return nil, err
	}

	sent, err := protectedRun("read sent mail", func() (*SentMail, error) {
		return &SentMail{
			messageID: m.transport.LastMessageID(),
			mime:      m.transport.SentMIMEMessage(),
		}, nil
	})
	if err != nil {
		m.finish(ctx, resultFailed, start, err)
		return nil, err
	}

	m.state = stateSent
	m.finish(ctx, resultSent, start, nil, logger.MessageID(sent.messageID))
	return sent, nil
}

func (m *Mail) finish(ctx context.Context, result string, start time.Time, err error, attrs ...slog.Attr) {
	elapsed := time.Since(start)
	m.metrics.observe(result, elapsed)

	attrs = append(attrs,
		logger.Component("smtp"),
		logger.Result(result),
		logger.Recipients(len(m.recipients)),
		logger.Attachments(len(m.attachments)),
		logger.Duration(elapsed),
		logger.Error(err),
	)
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	m.log.LogAttrs(ctx, level, "send mail", attrs...)
}

func (m *Mail) releaseAttachments() {
	if err := m.releasable.ReleaseAll(); err != nil {
		m.log.Warn("failed to release attachments", logger.Component("smtp"), logger.Error(err))
	}
}

// Sender returns the From address, if set.
func (m *Mail) Sender() (Address, bool) {
	if m.sender == nil {
		return Address{}, false
	}
	return *m.sender, true
}

// Recipients returns the recipients in insertion order.
func (m *Mail) Recipients() []Recipient {
	return append([]Recipient(nil), m.recipients...)
}

// Subject returns the subject line.
func (m *Mail) Subject() string { return m.subject }

// Body returns the body, or nil when unset.
func (m *Mail) Body() email.Body { return m.body }

// Attachments returns the registered attachments in insertion order.
func (m *Mail) Attachments() []Attachment {
	return append([]Attachment(nil), m.attachments...)
}

// IsConsumed reports whether Send has been called.
func (m *Mail) IsConsumed() bool {
	return m.state != stateConfiguring
}
