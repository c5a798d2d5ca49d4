package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/smtpmail/core/email"
)

func TestSecurity_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want email.Security
	}{
		{"", email.SecurityNone},
		{"none", email.SecurityNone},
		{"plain", email.SecurityNone},
		{"ssl", email.SecuritySSL},
		{"SMTPS", email.SecuritySSL},
		{"tls", email.SecurityTLS},
		{" StartTLS ", email.SecurityTLS},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			var s email.Security
			require.NoError(t, s.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, s)

			text, err := s.MarshalText()
			require.NoError(t, err)
			var back email.Security
			require.NoError(t, back.UnmarshalText(text))
			assert.Equal(t, s, back)
		})
	}

	var s email.Security
	err := s.UnmarshalText([]byte("pop3"))
	assert.ErrorIs(t, err, email.ErrUnsupportedValue)
	assert.Equal(t, "Security(9)", email.Security(9).String())
}

func TestBasicCredentials(t *testing.T) {
	t.Parallel()

	creds, err := email.BasicCredentials(email.BasicAuthentication{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", creds.Username)

	creds, err = email.BasicCredentials(&email.BasicAuthentication{Username: "v", Password: "q"})
	require.NoError(t, err)
	assert.Equal(t, "q", creds.Password)

	_, err = email.BasicCredentials(oauth{})
	assert.ErrorIs(t, err, email.ErrUnsupportedValue)

	_, err = email.BasicCredentials(nil)
	assert.ErrorIs(t, err, email.ErrUnsupportedValue)

	_, err = email.BasicCredentials((*email.BasicAuthentication)(nil))
	assert.ErrorIs(t, err, email.ErrUnsupportedValue)
}

func TestTransportConfig(t *testing.T) {
	t.Parallel()

	cfg := email.TransportConfig{Host: "smtp.example.com"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, email.DefaultPort, cfg.PortOrDefault())
	assert.False(t, cfg.HasAuth())

	cfg.Port = 2525
	cfg.Authentication = email.BasicAuthentication{Username: "u"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2525, cfg.PortOrDefault())
	assert.True(t, cfg.HasAuth())

	assert.ErrorIs(t, email.TransportConfig{}.Validate(), email.ErrInvalidConfig)
	assert.ErrorIs(t, email.TransportConfig{Host: "bad host!"}.Validate(), email.ErrInvalidConfig)
	assert.ErrorIs(t, email.TransportConfig{Host: "h", Port: 65536}.Validate(), email.ErrInvalidConfig)
	assert.ErrorIs(t, email.TransportConfig{Host: "h", Authentication: oauth{}}.Validate(), email.ErrUnsupportedValue)
}

func TestTransportConfig_EmptyUsername(t *testing.T) {
	t.Parallel()

	for _, auth := range []email.Authentication{
		email.BasicAuthentication{Password: "secret"},
		&email.BasicAuthentication{},
	} {
		cfg := email.TransportConfig{Host: "smtp.example.com", Authentication: auth}
		assert.True(t, cfg.HasAuth())
		assert.ErrorIs(t, cfg.Validate(), email.ErrInvalidConfig)
	}
}

func TestRecipientType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "to", email.RecipientTo.String())
	assert.Equal(t, "cc", email.RecipientCc.String())
	assert.Equal(t, "bcc", email.RecipientBcc.String())
	assert.Equal(t, "RecipientType(5)", email.RecipientType(5).String())
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{SendTo: "user@example.com", Subject: "Hi", BodyHTML: "<p>x</p>"}
	require.NoError(t, valid.Validate())

	for name, p := range map[string]email.SendEmailParams{
		"missing recipient": {Subject: "Hi", BodyHTML: "x"},
		"bad recipient":     {SendTo: "nope", Subject: "Hi", BodyHTML: "x"},
		"missing subject":   {SendTo: "user@example.com", BodyHTML: "x"},
		"missing body":      {SendTo: "user@example.com", Subject: "Hi"},
	} {
		assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams, name)
	}
}
