package smtp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/smtpmail/core/logger"
)

// newDebugBridge forwards the transport debug stream to l:
// protocol lines at NOTICE, connection detail at INFO, the rest at DEBUG.
// A failing handler never reaches the transport.
func newDebugBridge(l *slog.Logger) DebugFunc {
	return func(message string, level DebugLevel) {
		defer func() { _ = recover() }()

		msg := strings.TrimRight(message, "\r\n")
		ctx := context.Background()

		switch level {
		case DebugClient, DebugServer:
			l.LogAttrs(ctx, logger.LevelNotice, msg, slog.String("direction", level.String()))
		case DebugConnection:
			l.LogAttrs(ctx, slog.LevelInfo, msg)
		default:
			l.LogAttrs(ctx, slog.LevelDebug, msg)
		}
	}
}
