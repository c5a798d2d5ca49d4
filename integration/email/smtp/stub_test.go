package smtp_test

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrymomot/smtpmail/integration/email/smtp"
)

type call struct {
	method string
	args   []string
}

// stubTransport records every call and plays back configured results.
type stubTransport struct {
	mu    sync.Mutex
	calls []call

	settings smtp.TransportSettings

	setFromErr    error
	addErr        error
	attachErr     error
	attachPanic   any
	sendOK        bool
	sendErr       error
	sendPanic     any
	errorInfo     string
	messageID     string
	mime          string
	attachedFiles []string
	filesAtSend   map[string]bool
}

func (s *stubTransport) record(method string, args ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{method: method, args: args})
}

func (s *stubTransport) methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.method)
	}
	return out
}

func (s *stubTransport) find(method string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubTransport) SetFrom(address, name string) error {
	s.record("SetFrom", address, name)
	return s.setFromErr
}

func (s *stubTransport) AddTo(address, name string) error {
	s.record("AddTo", address, name)
	return s.addErr
}

func (s *stubTransport) AddCc(address, name string) error {
	s.record("AddCc", address, name)
	return s.addErr
}

func (s *stubTransport) AddBcc(address, name string) error {
	s.record("AddBcc", address, name)
	return s.addErr
}

func (s *stubTransport) SetSubject(subject string) {
	s.record("SetSubject", subject)
}

func (s *stubTransport) SetBody(body, altBody string, html bool) {
	s.record("SetBody", body, altBody, fmt.Sprint(html))
}

func (s *stubTransport) AddAttachment(path, filename, encoding, mimeType string) error {
	s.record("AddAttachment", path, filename, encoding, mimeType)
	if s.attachPanic != nil {
		panic(s.attachPanic)
	}
	if s.attachErr != nil {
		return s.attachErr
	}
	s.attachedFiles = append(s.attachedFiles, path)
	return nil
}

func (s *stubTransport) Send(ctx context.Context) (bool, error) {
	s.record("Send")
	s.filesAtSend = make(map[string]bool, len(s.attachedFiles))
	for _, p := range s.attachedFiles {
		_, err := os.Stat(p)
		s.filesAtSend[p] = err == nil
	}
	if s.sendPanic != nil {
		panic(s.sendPanic)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.sendOK, s.sendErr
}

func (s *stubTransport) ErrorInfo() string       { return s.errorInfo }
func (s *stubTransport) LastMessageID() string   { return s.messageID }
func (s *stubTransport) SentMIMEMessage() string { return s.mime }

// factoryFor returns a factory that always hands out st and remembers the settings.
func factoryFor(st *stubTransport) smtp.TransportFactory {
	return func(s smtp.TransportSettings) (smtp.Transport, error) {
		st.settings = s
		return st, nil
	}
}
