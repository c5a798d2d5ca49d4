package smtp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dmitrymomot/smtpmail/core/content"
	"github.com/dmitrymomot/smtpmail/core/email"
	"github.com/dmitrymomot/smtpmail/integration/email/smtp"
)

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

func newTestMail(t testingT, st *stubTransport) *smtp.Mail {
	t.Helper()

	client := smtp.MustNew(email.TransportConfig{Host: "localhost"}, smtp.WithTransportFactory(factoryFor(st)))
	m, err := client.NewMail()
	require.NoError(t, err)
	return m
}

func TestMail_Recipients(t *testing.T) {
	t.Parallel()

	st := &stubTransport{}
	m := newTestMail(t, st)

	require.NoError(t, m.WithRecipient("a@example.com", "A", email.RecipientTo))
	require.NoError(t, m.WithRecipient("b@example.com", "", email.RecipientCc))
	require.NoError(t, m.WithRecipient("c@example.com", "C", email.RecipientBcc))

	assert.Equal(t, []string{"AddTo", "AddCc", "AddBcc"}, st.methods())
	assert.Equal(t, []smtp.Recipient{
		{Address: smtp.Address{Email: "a@example.com", Name: "A"}, Type: email.RecipientTo},
		{Address: smtp.Address{Email: "b@example.com"}, Type: email.RecipientCc},
		{Address: smtp.Address{Email: "c@example.com", Name: "C"}, Type: email.RecipientBcc},
	}, m.Recipients())
}

func TestMail_RecipientOrderProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		st := &stubTransport{}
		m := newTestMail(t, st)

		n := rapid.IntRange(0, 20).Draw(t, "n")
		want := make([]smtp.Recipient, 0, n)
		for range n {
			r := smtp.Recipient{
				Address: smtp.Address{
					Email: rapid.StringMatching(`[a-z]{1,8}@[a-z]{1,8}\.com`).Draw(t, "email"),
					Name:  rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "name"),
				},
				Type: rapid.SampledFrom([]email.RecipientType{
					email.RecipientTo, email.RecipientCc, email.RecipientBcc,
				}).Draw(t, "type"),
			}
			if err := m.WithRecipient(r.Email, r.Name, r.Type); err != nil {
				t.Fatalf("WithRecipient: %v", err)
			}
			want = append(want, r)
		}

		got := m.Recipients()
		if len(got) != len(want) {
			t.Fatalf("got %d recipients, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("recipient %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})
}

func TestMail_UnsupportedRecipientType(t *testing.T) {
	t.Parallel()

	st := &stubTransport{}
	m := newTestMail(t, st)

	err := m.WithRecipient("a@example.com", "", email.RecipientType(42))
	assert.ErrorIs(t, err, email.ErrUnsupportedValue)
	assert.Empty(t, st.methods())
	assert.Empty(t, m.Recipients())
}

func TestMail_TransportRejectsAddress(t *testing.T) {
	t.Parallel()

	cause := errors.New("invalid address")
	st := &stubTransport{addErr: cause, setFromErr: cause}
	m := newTestMail(t, st)

	err := m.WithRecipient("not an address", "", email.RecipientTo)
	assert.ErrorIs(t, err, email.ErrOperationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, m.Recipients())

	var opErr *email.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "add recipient", opErr.Op)

	err = m.WithSender("bad", "")
	assert.ErrorIs(t, err, email.ErrOperationFailed)
	_, ok := m.Sender()
	assert.False(t, ok)
}

func TestMail_SenderAndSubject(t *testing.T) {
	t.Parallel()

	st := &stubTransport{}
	m := newTestMail(t, st)

	require.NoError(t, m.WithSender("from@example.com", "Sender"))
	m.WithSubject("Hello")

	sender, ok := m.Sender()
	require.True(t, ok)
	assert.Equal(t, smtp.Address{Email: "from@example.com", Name: "Sender"}, sender)
	assert.Equal(t, "Hello", m.Subject())
	assert.Equal(t, []string{"from@example.com", "Sender"}, st.find("SetFrom")[0].args)
	assert.Equal(t, []string{"Hello"}, st.find("SetSubject")[0].args)
}

func TestMail_Body(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     email.Body
		wantArgs []string
	}{
		{
			name:     "plain text",
			body:     email.PlaintextBody{Text: "hello"},
			wantArgs: []string{"hello", "", "false"},
		},
		{
			name:     "plain text pointer",
			body:     &email.PlaintextBody{Text: "hello"},
			wantArgs: []string{"hello", "", "false"},
		},
		{
			name:     "html",
			body:     email.HTMLBody{HTML: "<p>Hi &amp; welcome</p><script>x()</script>"},
			wantArgs: []string{"<p>Hi &amp; welcome</p><script>x()</script>", "Hi & welcome", "true"},
		},
		{
			name:     "html pointer",
			body:     &email.HTMLBody{HTML: "<b>bold</b>"},
			wantArgs: []string{"<b>bold</b>", "bold", "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := &stubTransport{}
			m := newTestMail(t, st)

			require.NoError(t, m.WithBody(tt.body))
			calls := st.find("SetBody")
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantArgs, calls[0].args)
			assert.Equal(t, tt.body, m.Body())
		})
	}
}

func TestMail_UnsupportedBody(t *testing.T) {
	t.Parallel()

	bodies := map[string]email.Body{
		"nil":              nil,
		"nil html pointer": (*email.HTMLBody)(nil),
		"nil text pointer": (*email.PlaintextBody)(nil),
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			st := &stubTransport{}
			m := newTestMail(t, st)

			err := m.WithBody(body)
			assert.ErrorIs(t, err, email.ErrUnsupportedValue)
			assert.Empty(t, st.methods())
			assert.Nil(t, m.Body())
		})
	}
}

func TestMail_AttachFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	f, err := content.FromFile(path, content.WithMimeType("application/pdf"))
	require.NoError(t, err)

	st := &stubTransport{sendOK: true}
	m := newTestMail(t, st)
	require.NoError(t, m.WithAttachment(f))

	assert.Equal(t, []smtp.Attachment{{
		Path:     path,
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Encoding: smtp.EncodingBase64,
	}}, m.Attachments())
	assert.Equal(t, []string{path, "report.pdf", "base64", "application/pdf"}, st.find("AddAttachment")[0].args)

	_, err = m.Send(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path, "caller-owned files are never released")
}

func TestMail_AttachBlobReleasedAfterSend(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		st   *stubTransport
	}{
		{name: "sent", st: &stubTransport{sendOK: true}},
		{name: "rejected", st: &stubTransport{errorInfo: "552 too big"}},
		{name: "failed", st: &stubTransport{sendErr: errors.New("connection reset")}},
		{name: "panicked", st: &stubTransport{sendPanic: "boom"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMail(t, tc.st)
			require.NoError(t, m.WithAttachment(content.FromBytes([]byte("a,b\n1,2\n"),
				content.WithFilename("data.csv"),
				content.WithMimeType("text/csv"),
			)))

			atts := m.Attachments()
			require.Len(t, atts, 1)
			tmp := atts[0].Path
			assert.Equal(t, "data.csv", atts[0].Filename)
			assert.FileExists(t, tmp)

			_, _ = m.Send(context.Background())

			assert.True(t, tc.st.filesAtSend[tmp], "temp file exists while sending")
			assert.NoFileExists(t, tmp)
		})
	}
}

func TestMail_AttachmentFailure(t *testing.T) {
	t.Parallel()

	t.Run("unresolvable content", func(t *testing.T) {
		t.Parallel()

		st := &stubTransport{}
		m := newTestMail(t, st)

		err := m.WithAttachment(nil)
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.ErrorIs(t, err, content.ErrUnsupportedContent)
		assert.Empty(t, m.Attachments())
		assert.Empty(t, st.methods())
	})

	t.Run("transport rejects attachment", func(t *testing.T) {
		t.Parallel()

		st := &stubTransport{attachErr: errors.New("cannot attach")}
		m := newTestMail(t, st)

		err := m.WithAttachment(content.FromBytes([]byte("data"), content.WithFilename("x.bin")))
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.Empty(t, m.Attachments())

		calls := st.find("AddAttachment")
		require.Len(t, calls, 1)
		assert.NoFileExists(t, calls[0].args[0], "temp file released immediately")
	})

	t.Run("transport panics", func(t *testing.T) {
		t.Parallel()

		st := &stubTransport{attachPanic: "nil map"}
		m := newTestMail(t, st)

		err := m.WithAttachment(content.FromBytes([]byte("data")))
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.Empty(t, m.Attachments())
		assert.NoFileExists(t, st.find("AddAttachment")[0].args[0])
	})
}

func TestMail_Send(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		st := &stubTransport{sendOK: true, messageID: "<id1>", mime: "Message-ID: <id1>\r\n\r\nhello"}
		m := newTestMail(t, st)

		sent, err := m.Send(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "<id1>", sent.MessageID())
		assert.Equal(t, "Message-ID: <id1>\r\n\r\nhello", sent.ExportAsMimeMessage())
		assert.True(t, m.IsConsumed())
	})

	t.Run("not accepted with diagnostic", func(t *testing.T) {
		t.Parallel()

		st := &stubTransport{errorInfo: "550 5.1.1 mailbox unavailable"}
		m := newTestMail(t, st)

		sent, err := m.Send(context.Background())
		assert.Nil(t, sent)
		assert.ErrorIs(t, err, email.ErrSendOperationFailed)
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.Contains(t, err.Error(), "mailbox unavailable")
	})

	t.Run("not accepted without diagnostic", func(t *testing.T) {
		t.Parallel()

		m := newTestMail(t, &stubTransport{})

		_, err := m.Send(context.Background())
		assert.Equal(t, email.ErrSendOperationFailed, err)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("dial tcp: connection refused")
		m := newTestMail(t, &stubTransport{sendErr: cause})

		_, err := m.Send(context.Background())
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, email.ErrSendOperationFailed)
	})

	t.Run("transport panic", func(t *testing.T) {
		t.Parallel()

		m := newTestMail(t, &stubTransport{sendPanic: errors.New("nil pointer")})

		_, err := m.Send(context.Background())
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.NotErrorIs(t, err, email.ErrSendOperationFailed)
		assert.Contains(t, err.Error(), "nil pointer")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		m := newTestMail(t, &stubTransport{sendOK: true})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Send(ctx)
		assert.ErrorIs(t, err, email.ErrOperationFailed)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMail_ConsumedAfterSend(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		st   *stubTransport
	}{
		{name: "after success", st: &stubTransport{sendOK: true}},
		{name: "after rejection", st: &stubTransport{}},
		{name: "after failure", st: &stubTransport{sendErr: errors.New("eof")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMail(t, tc.st)
			m.WithSubject("before")
			_, _ = m.Send(context.Background())
			before := len(tc.st.methods())

			assert.ErrorIs(t, m.WithSender("a@example.com", ""), email.ErrMailConsumed)
			assert.ErrorIs(t, m.WithRecipient("a@example.com", "", email.RecipientTo), email.ErrMailConsumed)
			assert.ErrorIs(t, m.WithBody(email.PlaintextBody{Text: "x"}), email.ErrMailConsumed)
			assert.ErrorIs(t, m.WithAttachment(content.FromBytes([]byte("x"))), email.ErrMailConsumed)
			m.WithSubject("after")

			_, err := m.Send(context.Background())
			assert.ErrorIs(t, err, email.ErrMailConsumed)
			assert.ErrorIs(t, err, email.ErrOperationFailed)

			assert.Len(t, tc.st.methods(), before, "transport untouched after send")
			assert.Equal(t, "before", m.Subject())
		})
	}
}
