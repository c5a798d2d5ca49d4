package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/wneessen/go-mail"
	"github.com/wneessen/go-mail/log"
)

// deliverFunc hands a composed message to its destination.
type deliverFunc func(ctx context.Context, msg *mail.Msg) error

// goMailTransport composes messages with go-mail. Where the message goes is
// decided by deliver: an SMTP server, or a directory in development.
type goMailTransport struct {
	settings TransportSettings
	msg      *mail.Msg
	deliver  deliverFunc

	errorInfo string
	mime      string
}

// NewGoMailTransport is the default TransportFactory. It delivers over SMTP.
func NewGoMailTransport(s TransportSettings) (Transport, error) {
	t := newGoMailTransport(s)
	t.deliver = t.dialAndSend
	return t, nil
}

func newGoMailTransport(s TransportSettings) *goMailTransport {
	return &goMailTransport{
		settings: s,
		msg:      mail.NewMsg(mail.WithCharset(mail.CharsetUTF8)),
	}
}

func (t *goMailTransport) SetFrom(address, name string) error {
	if name == "" {
		return t.msg.From(address)
	}
	return t.msg.FromFormat(name, address)
}

func (t *goMailTransport) AddTo(address, name string) error {
	if name == "" {
		return t.msg.AddTo(address)
	}
	return t.msg.AddToFormat(name, address)
}

func (t *goMailTransport) AddCc(address, name string) error {
	if name == "" {
		return t.msg.AddCc(address)
	}
	return t.msg.AddCcFormat(name, address)
}

func (t *goMailTransport) AddBcc(address, name string) error {
	if name == "" {
		return t.msg.AddBcc(address)
	}
	return t.msg.AddBccFormat(name, address)
}

func (t *goMailTransport) SetSubject(subject string) {
	t.msg.Subject(subject)
}

// SetBody puts the plain-text part first so clients prefer the HTML part
// of a multipart/alternative body.
func (t *goMailTransport) SetBody(body, altBody string, html bool) {
	if !html {
		t.msg.SetBodyString(mail.TypeTextPlain, body)
		return
	}
	t.msg.SetBodyString(mail.TypeTextPlain, altBody)
	t.msg.AddAlternativeString(mail.TypeTextHTML, body)
}

func (t *goMailTransport) AddAttachment(path, filename, encoding, mimeType string) error {
	// go-mail silently skips files it cannot stat.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not access file %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("could not attach %q: is a directory", path)
	}

	enc, err := fileEncoding(encoding)
	if err != nil {
		return err
	}

	opts := []mail.FileOption{mail.WithFileEncoding(enc)}
	if filename != "" {
		opts = append(opts, mail.WithFileName(filename))
	}
	if mimeType != "" {
		opts = append(opts, mail.WithFileContentType(mail.ContentType(mimeType)))
	}
	t.msg.AttachFile(path, opts...)
	return nil
}

func fileEncoding(encoding string) (mail.Encoding, error) {
	switch encoding {
	case "", EncodingBase64:
		return mail.EncodingB64, nil
	case string(mail.EncodingQP):
		return mail.EncodingQP, nil
	default:
		return "", fmt.Errorf("unknown attachment encoding %q", encoding)
	}
}

// Send fixes Message-ID and Date first so the exported MIME text carries the
// same identity as the delivered message. A message the server answered with
// an error reply counts as "not sent"; anything else, including a connection
// lost mid-session, is a transport failure.
func (t *goMailTransport) Send(ctx context.Context) (bool, error) {
	t.errorInfo = ""
	t.msg.SetMessageID()
	t.msg.SetDate()

	if err := t.deliver(ctx, t.msg); err != nil {
		if refusal, ok := serverRefusal(err); ok {
			t.errorInfo = refusal.Error()
			return false, nil
		}
		return false, err
	}

	var buf bytes.Buffer
	if _, err := t.msg.WriteTo(&buf); err != nil {
		t.debugf(DebugLowLevel, "failed to export sent message: %v", err)
	}
	t.mime = buf.String()

	return true, nil
}

// serverRefusal reports whether err is go-mail's account of an SMTP error
// reply to MAIL FROM, RCPT TO or the end of DATA. dialAndSend strips the
// SendError from the chain when the connection failed, so a match here
// always carries a server reply.
func serverRefusal(err error) (*mail.SendError, bool) {
	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) {
		return nil, false
	}
	switch sendErr.Reason {
	case mail.ErrSMTPMailFrom, mail.ErrSMTPRcptTo, mail.ErrSMTPDataClose:
		return sendErr, true
	default:
		return nil, false
	}
}

func (t *goMailTransport) ErrorInfo() string       { return t.errorInfo }
func (t *goMailTransport) LastMessageID() string   { return t.msg.GetMessageID() }
func (t *goMailTransport) SentMIMEMessage() string { return t.mime }

func (t *goMailTransport) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	var session *sessionConn
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		conn, err := t.dial(ctx, network, address)
		if err != nil {
			return nil, err
		}
		session = &sessionConn{Conn: conn}
		if t.settings.Encryption != EncryptionImplicitTLS {
			return session, nil
		}
		tlsConn := tls.Client(session, t.tlsConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		return tlsConn, nil
	}

	opts := append(t.clientOptions(), mail.WithDialContextFunc(dial))
	client, err := mail.NewClient(t.settings.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	t.debugf(DebugConnection, "connecting to %s (%s)", t.settings.Addr(), t.settings.Encryption)
	if t.settings.HasAuth() {
		t.debugf(DebugConnection, "authenticating as %s using %s", t.settings.Username, t.settings.AuthMechanism)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	// Quit errors are non-fatal as the message was already sent.
	// Some servers close the connection immediately after DATA.
	defer func() {
		if err := client.Close(); err != nil {
			t.debugf(DebugConnection, "closing connection: %v", err)
		}
	}()

	if err := client.Send(msg); err != nil {
		// go-mail reports a dropped connection under the same reasons as an
		// error reply; the session knows which one it was.
		if ioErr := session.failure(); ioErr != nil {
			return fmt.Errorf("connection lost: %v: %w", err, ioErr)
		}
		return err
	}
	return nil
}

func (t *goMailTransport) dial(ctx context.Context, network, address string) (net.Conn, error) {
	if t.settings.DialContext != nil {
		return t.settings.DialContext(ctx, network, address)
	}
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

// tlsConfig mirrors go-mail's defaults for a connection it dials itself.
func (t *goMailTransport) tlsConfig() *tls.Config {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if t.settings.TLSConfig != nil {
		cfg = t.settings.TLSConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = t.settings.Host
	}
	return cfg
}

// sessionConn remembers the first read or write failure of an SMTP session.
type sessionConn struct {
	net.Conn
	err error
}

func (c *sessionConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	c.record(err)
	return n, err
}

func (c *sessionConn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.record(err)
	return n, err
}

func (c *sessionConn) record(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

func (c *sessionConn) failure() error {
	if c == nil {
		return nil
	}
	return c.err
}

func (t *goMailTransport) clientOptions() []mail.Option {
	s := t.settings
	opts := []mail.Option{mail.WithPort(s.Port)}

	switch s.Encryption {
	case EncryptionImplicitTLS:
		// The handshake happens in dialAndSend's dialer.
		opts = append(opts, mail.WithSSL(), mail.WithTLSPolicy(mail.NoTLS))
	case EncryptionStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if s.TLSConfig != nil {
		opts = append(opts, mail.WithTLSConfig(s.TLSConfig))
	}

	if s.HasAuth() {
		opts = append(opts,
			mail.WithSMTPAuth(authType(s)),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}
	if s.HELO != "" {
		opts = append(opts, mail.WithHELO(s.HELO))
	}
	if s.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.Timeout))
	}
	if s.Debug != nil {
		opts = append(opts, mail.WithDebugLog(), mail.WithLogger(debugLogger{out: s.Debug}))
	}

	return opts
}

// authType picks the go-mail SASL mechanism. Without encryption credentials
// go out in clear, which go-mail only permits through the NoEnc variants.
// StartTLS keeps the encrypted-only variants, so AUTH fails rather than
// leak credentials when the server does not offer STARTTLS.
func authType(s TransportSettings) mail.SMTPAuthType {
	plaintext := s.Encryption == EncryptionNone
	switch {
	case s.AuthMechanism == AuthLogin && plaintext:
		return mail.SMTPAuthLoginNoEnc
	case s.AuthMechanism == AuthLogin:
		return mail.SMTPAuthLogin
	case plaintext:
		return mail.SMTPAuthPlainNoEnc
	default:
		return mail.SMTPAuthPlain
	}
}

func (t *goMailTransport) debugf(level DebugLevel, format string, args ...any) {
	if t.settings.Debug != nil {
		t.settings.Debug(fmt.Sprintf(format, args...), level)
	}
}

// debugLogger adapts go-mail's logger to a DebugFunc. go-mail reports the
// SMTP dialogue through Debugf, tagged with its direction.
type debugLogger struct {
	out DebugFunc
}

func (d debugLogger) Debugf(l log.Log) {
	level := DebugServer
	if l.Direction == log.DirClientToServer {
		level = DebugClient
	}
	d.out(fmt.Sprintf(l.Format, l.Messages...), level)
}

func (d debugLogger) Infof(l log.Log) {
	d.out(fmt.Sprintf(l.Format, l.Messages...), DebugConnection)
}

func (d debugLogger) Warnf(l log.Log) {
	d.out(fmt.Sprintf(l.Format, l.Messages...), DebugLowLevel)
}

func (d debugLogger) Errorf(l log.Log) {
	d.out(fmt.Sprintf(l.Format, l.Messages...), DebugLowLevel)
}
