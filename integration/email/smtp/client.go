package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/smtpmail/core/email"
	"github.com/dmitrymomot/smtpmail/core/logger"
)

// Client creates mails bound to one SMTP server. Its configuration is fixed
// at construction, so a Client is safe for concurrent use; the mails it
// creates are not.
type Client struct {
	config   email.TransportConfig
	settings TransportSettings
	factory  TransportFactory
	log      *slog.Logger
	debug    bool
	metrics  *Metrics
	sender   Address
}

var _ email.EmailSender = (*Client)(nil)

// New validates cfg and returns a client for it. An invalid configuration
// wraps email.ErrInvalidConfig; credentials of an unsupported kind are
// reported as email.ErrUnsupportedValue.
func New(cfg email.TransportConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		settings: TransportSettings{
			Host:       cfg.Host,
			Port:       cfg.PortOrDefault(),
			Encryption: EncryptionFor(cfg.Security),
		},
		factory: NewGoMailTransport,
		log:     logger.Nop(),
	}
	if cfg.HasAuth() {
		creds, err := email.BasicCredentials(cfg.Authentication)
		if err != nil {
			return nil, err
		}
		c.settings.Auth = true
		c.settings.Username = creds.Username
		c.settings.Password = creds.Password
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.debug {
		c.settings.Debug = newDebugBridge(c.log.With(logger.Component("smtp"), logger.Server(c.settings.Addr())))
	}

	return c, nil
}

// MustNew is New that panics on error. Intended for service initialization.
func MustNew(cfg email.TransportConfig, opts ...Option) *Client {
	c, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// NewFromConfig builds a client from an environment configuration.
// Options passed explicitly are applied after those implied by cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", email.ErrInvalidConfig, err)
	}
	return New(cfg.Transport(), append(cfg.Options(), opts...)...)
}

// Config returns the transport configuration the client was built with.
func (c *Client) Config() email.TransportConfig {
	return c.config
}

// NewMail returns an empty mail with a fresh transport.
func (c *Client) NewMail() (*Mail, error) {
	t, err := protectedRun("create transport", func() (Transport, error) {
		return c.factory(c.settings)
	})
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &email.OperationError{Op: "create transport", Err: errors.New("factory returned nil transport")}
	}

	return &Mail{
		transport: t,
		log:       c.log,
		metrics:   c.metrics,
	}, nil
}

// SendEmail sends an HTML email from the default sender.
// Any failure is joined with email.ErrFailedToSendEmail.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if c.sender.Email == "" {
		return fmt.Errorf("%w: default sender is not configured", email.ErrInvalidConfig)
	}

	m, err := c.NewMail()
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := m.WithSender(c.sender.Email, c.sender.Name); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := m.WithRecipient(params.SendTo, "", email.RecipientTo); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	m.WithSubject(params.Subject)
	if err := m.WithBody(email.HTMLBody{HTML: params.BodyHTML}); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}

	sent, err := m.Send(ctx)
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	c.log.DebugContext(ctx, "email sent",
		logger.Component("smtp"),
		logger.MessageID(sent.MessageID()),
		slog.String("tag", params.Tag),
	)
	return nil
}
