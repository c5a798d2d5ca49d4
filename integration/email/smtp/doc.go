// Package smtp composes and sends email over SMTP.
//
// A Client is created once from an email.TransportConfig and hands out Mail
// values. Each Mail holds one message, is configured step by step, and is
// sent exactly once:
//
//	client, err := smtp.New(email.TransportConfig{
//		Host:     "smtp.example.com",
//		Port:     587,
//		Security: email.SecurityTLS,
//		Authentication: email.BasicAuthentication{
//			Username: "user",
//			Password: "secret",
//		},
//	}, smtp.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	m, err := client.NewMail()
//	if err != nil {
//		return err
//	}
//	_ = m.WithSender("noreply@example.com", "Example")
//	_ = m.WithRecipient("user@example.com", "", email.RecipientTo)
//	m.WithSubject("Welcome")
//	_ = m.WithBody(email.HTMLBody{HTML: "<p>Hello</p>"})
//	_ = m.WithAttachment(content.FromBytes(report, content.WithFilename("report.pdf")))
//
//	sent, err := m.Send(ctx)
//	switch {
//	case errors.Is(err, email.ErrSendOperationFailed):
//		return err // the server did not accept the message
//	case err != nil:
//		return err // transport failure
//	}
//	log.Info("sent", logger.MessageID(sent.MessageID()))
//
// Errors from the underlying mail library are returned as
// *email.OperationError, which matches email.ErrOperationFailed and keeps
// the cause for errors.Unwrap. Values this package does not support
// (credential kinds, recipient types, body types) match
// email.ErrUnsupportedValue.
//
// In-memory attachments are written to temporary files that are removed
// when Send returns, whatever its outcome.
//
// Client also implements email.EmailSender for simple one-recipient HTML
// mails sent from a default sender:
//
//	cfg := smtp.Config{}
//	config.MustLoad(&cfg)
//	sender, err := smtp.NewFromConfig(cfg)
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "user@example.com",
//		Subject:  "Welcome",
//		BodyHTML: "<p>Hello</p>",
//	})
//
// Setting SMTP_DEV_OUTPUT_DIR (or WithDevOutput) writes each message to
// that directory as an .eml file with JSON metadata instead of sending it.
package smtp
