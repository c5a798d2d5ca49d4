// Package email defines the provider-agnostic vocabulary for composing and
// sending mail: transport configuration, body and recipient variants, the
// error taxonomy and the EmailSender interface implemented by integrations.
//
// # Transport configuration
//
//	cfg := email.TransportConfig{
//		Host:     "smtp.example.com",
//		Port:     587, // zero selects email.DefaultPort
//		Security: email.SecurityTLS,
//		Authentication: email.BasicAuthentication{
//			Username: "mailer",
//			Password: "secret",
//		},
//	}
//	if err := cfg.Validate(); err != nil {
//		// ErrInvalidConfig or ErrUnsupportedValue
//	}
//
// Security modes map onto the wire as follows:
//
//   - SecuritySSL: TLS from the first byte (SMTPS, usually port 465)
//   - SecurityTLS: STARTTLS upgrade when the server offers it (port 587)
//   - SecurityNone: no encryption; unknown values are treated the same way
//
// Only BasicAuthentication is supported. Other Authentication kinds are
// rejected before any connection is made.
//
// # Bodies and recipients
//
// Body is a closed set: PlaintextBody or HTMLBody. HTML bodies are always
// sent with a plain-text alternative derived by HTMLToText. Recipients are
// tagged with RecipientTo, RecipientCc or RecipientBcc.
//
// # Error Handling
//
// Callers only see a small set of error kinds:
//
//	switch {
//	case errors.Is(err, email.ErrUnsupportedValue):
//		// caller supplied a variant that is not implemented
//	case errors.Is(err, email.ErrSendOperationFailed):
//		// server refused the message; err carries its diagnostic
//	case errors.Is(err, email.ErrOperationFailed):
//		// mail library failure; errors.Unwrap gives the cause
//	case errors.Is(err, email.ErrInvalidParams), errors.Is(err, email.ErrInvalidConfig):
//		// validation
//	}
//
// ErrSendOperationFailed also matches ErrOperationFailed, so check it first.
package email
