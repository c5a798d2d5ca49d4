package email

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultPort is used when a TransportConfig leaves Port unset.
const DefaultPort = 587

// Security selects how the SMTP connection is encrypted.
type Security int

const (
	SecurityNone Security = iota
	SecuritySSL
	SecurityTLS
)

func (s Security) String() string {
	switch s {
	case SecurityNone:
		return "none"
	case SecuritySSL:
		return "ssl"
	case SecurityTLS:
		return "tls"
	default:
		return fmt.Sprintf("Security(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Security) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so security modes can be
// loaded from environment variables and YAML files.
func (s *Security) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "none", "plain":
		*s = SecurityNone
	case "ssl", "smtps":
		*s = SecuritySSL
	case "tls", "starttls":
		*s = SecurityTLS
	default:
		return NewUnsupportedValue(string(text), "SMTP security")
	}
	return nil
}

// Authentication is a credential kind for SMTP AUTH.
// Only BasicAuthentication is supported by the bundled clients.
type Authentication interface {
	Kind() string
}

// BasicAuthentication is username/password SMTP AUTH.
type BasicAuthentication struct {
	Username string
	Password string
}

func (BasicAuthentication) Kind() string { return "basic" }

// BasicCredentials returns the username/password pair of a basic credential.
// Any other kind, including a nil pointer, is rejected with ErrUnsupportedValue.
func BasicCredentials(auth Authentication) (BasicAuthentication, error) {
	switch a := auth.(type) {
	case BasicAuthentication:
		return a, nil
	case *BasicAuthentication:
		if a != nil {
			return *a, nil
		}
	}
	return BasicAuthentication{}, NewUnsupportedValue(auth, "SMTP authentication")
}

// TransportConfig describes where and how to connect to an SMTP server.
// Clients copy it on construction and never modify it.
type TransportConfig struct {
	Host string `validate:"required,hostname_rfc1123|ip"`
	// Port of the SMTP server; zero selects DefaultPort.
	Port     int `validate:"gte=0,lte=65535"`
	Security Security
	// Authentication is optional; nil disables SMTP AUTH.
	Authentication Authentication `validate:"-"`
}

// HasAuth reports whether SMTP AUTH is configured.
func (c TransportConfig) HasAuth() bool {
	return c.Authentication != nil
}

// PortOrDefault returns the configured port, or DefaultPort when unset.
func (c TransportConfig) PortOrDefault() int {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration before any connection is attempted.
// Structural problems wrap ErrInvalidConfig; an unsupported credential kind
// is reported as ErrUnsupportedValue.
func (c TransportConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.HasAuth() {
		creds, err := BasicCredentials(c.Authentication)
		if err != nil {
			return err
		}
		if creds.Username == "" {
			return fmt.Errorf("%w: SMTP authentication requires a username", ErrInvalidConfig)
		}
	}
	return nil
}
