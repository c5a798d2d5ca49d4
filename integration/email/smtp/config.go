package smtp

import (
	"time"

	"github.com/dmitrymomot/smtpmail/core/email"
)

// Config is the environment form of a client configuration. It can be
// populated with config.Load or config.LoadFile.
//
// Host is not tagged required so that a YAML file may supply it;
// NewFromConfig validates it either way. Defaults apply to the environment
// only; a YAML file is expected to be complete.
type Config struct {
	Host         string         `env:"SMTP_HOST" yaml:"host"`
	Port         int            `env:"SMTP_PORT" envDefault:"587" yaml:"port"`
	Security     email.Security `env:"SMTP_SECURITY" envDefault:"tls" yaml:"security"`
	Username     string         `env:"SMTP_USERNAME" yaml:"username"`
	Password     string         `env:"SMTP_PASSWORD" yaml:"password"`
	AuthLogin    bool           `env:"SMTP_AUTH_LOGIN" yaml:"auth_login"`
	HELO         string         `env:"SMTP_HELO" yaml:"helo"`
	Timeout      time.Duration  `env:"SMTP_TIMEOUT" envDefault:"15s" yaml:"timeout"`
	SenderEmail  string         `env:"SENDER_EMAIL" yaml:"sender_email" validate:"omitempty,email"`
	SenderName   string         `env:"SENDER_NAME" yaml:"sender_name"`
	DevOutputDir string         `env:"SMTP_DEV_OUTPUT_DIR" yaml:"dev_output_dir"`
}

// Transport returns the connection part of c. Credentials are set only
// when a username is configured.
func (c Config) Transport() email.TransportConfig {
	tc := email.TransportConfig{
		Host:     c.Host,
		Port:     c.Port,
		Security: c.Security,
	}
	if c.Username != "" {
		tc.Authentication = email.BasicAuthentication{Username: c.Username, Password: c.Password}
	}
	return tc
}

// Options returns the client options implied by c.
func (c Config) Options() []Option {
	var opts []Option
	if c.AuthLogin {
		opts = append(opts, WithAuthMechanism(AuthLogin))
	}
	if c.HELO != "" {
		opts = append(opts, WithHELO(c.HELO))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.SenderEmail != "" {
		opts = append(opts, WithDefaultSender(c.SenderEmail, c.SenderName))
	}
	if c.DevOutputDir != "" {
		opts = append(opts, WithDevOutput(c.DevOutputDir))
	}
	return opts
}
