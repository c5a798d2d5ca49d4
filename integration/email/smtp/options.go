package smtp

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for send results. It also enables the
// transport debug stream: protocol lines are logged at NOTICE, connection
// detail at INFO and the rest at DEBUG.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
			c.debug = true
		}
	}
}

// WithTransportFactory replaces the transport implementation.
func WithTransportFactory(f TransportFactory) Option {
	return func(c *Client) {
		if f != nil {
			c.factory = f
		}
	}
}

// WithMetrics records send results in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithAuthMechanism selects the SASL mechanism for basic credentials. PLAIN by default.
func WithAuthMechanism(m AuthMechanism) Option {
	return func(c *Client) {
		c.settings.AuthMechanism = m
	}
}

// WithTimeout bounds dialing and each protocol step.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.settings.Timeout = d
	}
}

// WithHELO sets the name announced in EHLO/HELO.
func WithHELO(name string) Option {
	return func(c *Client) {
		c.settings.HELO = name
	}
}

// WithTLSConfig sets the TLS configuration for implicit TLS and STARTTLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.settings.TLSConfig = cfg
	}
}

// WithDialer replaces the dialer used to reach the SMTP server.
func WithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) Option {
	return func(c *Client) {
		c.settings.DialContext = dial
	}
}

// WithDevOutput writes messages to dir instead of sending them.
func WithDevOutput(dir string) Option {
	return func(c *Client) {
		c.factory = NewDevTransportFactory(dir)
	}
}

// WithDefaultSender sets the From address used by SendEmail.
func WithDefaultSender(address, name string) Option {
	return func(c *Client) {
		c.sender = Address{Email: address, Name: name}
	}
}
