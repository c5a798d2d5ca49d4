package smtp

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/dmitrymomot/smtpmail/core/email"
)

// Transport is the message-level capability of an SMTP library.
// A Transport holds exactly one message and is used by exactly one Mail.
type Transport interface {
	SetFrom(address, name string) error
	AddTo(address, name string) error
	AddCc(address, name string) error
	AddBcc(address, name string) error
	SetSubject(subject string)
	// SetBody replaces the body. altBody is the plain-text alternative of an HTML body.
	SetBody(body, altBody string, html bool)
	AddAttachment(path, filename, encoding, mimeType string) error

	// Send reports false without an error when the server did not accept the
	// message; ErrorInfo then describes why. An error means the transport
	// itself failed.
	Send(ctx context.Context) (bool, error)
	ErrorInfo() string
	LastMessageID() string
	SentMIMEMessage() string
}

// TransportFactory creates a Transport bound to the given settings.
type TransportFactory func(TransportSettings) (Transport, error)

// TransportSettings is the protocol-level form of email.TransportConfig.
type TransportSettings struct {
	Host       string
	Port       int
	Encryption Encryption
	// Auth enables SMTP AUTH with Username and Password.
	Auth          bool
	Username      string
	Password      string
	AuthMechanism AuthMechanism
	HELO          string
	Timeout       time.Duration
	TLSConfig     *tls.Config
	// Debug receives the transport's debug stream. Nil disables it.
	Debug DebugFunc
	// DialContext replaces the default dialer, e.g. to go through a proxy.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// HasAuth reports whether SMTP AUTH should be performed.
func (s TransportSettings) HasAuth() bool {
	return s.Auth
}

// Addr returns host:port.
func (s TransportSettings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// Attachments are always registered with this encoding.
const EncodingBase64 = "base64"

// Encryption is how a transport secures its connection.
type Encryption int

const (
	// EncryptionNone negotiates nothing.
	EncryptionNone Encryption = iota
	// EncryptionImplicitTLS speaks TLS from the first byte (SMTPS).
	EncryptionImplicitTLS
	// EncryptionStartTLS upgrades with STARTTLS when the server offers it.
	EncryptionStartTLS
)

func (e Encryption) String() string {
	switch e {
	case EncryptionImplicitTLS:
		return "implicit-tls"
	case EncryptionStartTLS:
		return "starttls"
	default:
		return "none"
	}
}

// EncryptionFor maps a configured security mode to a transport encryption.
// Unknown modes map to EncryptionNone.
func EncryptionFor(s email.Security) Encryption {
	switch s {
	case email.SecuritySSL:
		return EncryptionImplicitTLS
	case email.SecurityTLS:
		return EncryptionStartTLS
	default:
		return EncryptionNone
	}
}

// AuthMechanism selects the SASL mechanism used for basic credentials.
type AuthMechanism int

const (
	AuthPlain AuthMechanism = iota
	AuthLogin
)

func (a AuthMechanism) String() string {
	if a == AuthLogin {
		return "LOGIN"
	}
	return "PLAIN"
}

// DebugLevel classifies a line of the transport debug stream.
type DebugLevel int

const (
	// DebugClient is a command sent by the client.
	DebugClient DebugLevel = iota + 1
	// DebugServer is a reply from the server.
	DebugServer
	// DebugConnection is connection-level detail (dial, TLS, auth).
	DebugConnection
	// DebugLowLevel is anything else.
	DebugLowLevel
)

func (l DebugLevel) String() string {
	switch l {
	case DebugClient:
		return "client"
	case DebugServer:
		return "server"
	case DebugConnection:
		return "connection"
	default:
		return "lowlevel"
	}
}

// DebugFunc receives one line of the transport debug stream.
type DebugFunc func(message string, level DebugLevel)
