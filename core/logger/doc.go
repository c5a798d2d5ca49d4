// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers option-based logger construction, an extra NOTICE level used for SMTP
// protocol traffic, and attribute helpers for common mail-delivery fields.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/smtpmail/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("mailer"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(
//		logger.WithProduction("mailer"),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Notice Level
//
// LevelNotice sits between INFO and WARN and is rendered as "NOTICE":
//
//	logger.Notice(ctx, log, "SMTP exchange", slog.String("line", "250 OK"))
//
// # Attribute Helpers
//
//	log.Info("Mail sent",
//		logger.Component("smtp"),
//		logger.MessageID(sent.MessageID()),
//		logger.Recipients(3),
//		logger.Duration(time.Since(start)),
//	)
//
//	log.Error("Mail rejected",
//		logger.Error(err), // empty attribute when err is nil
//		logger.Result("rejected"),
//	)
package logger
