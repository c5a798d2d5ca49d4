package smtp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// NewDevTransportFactory returns a TransportFactory for local development.
// Messages are composed exactly as for SMTP but saved to dir as an .eml file
// plus JSON metadata instead of being sent. The directory is created on demand.
func NewDevTransportFactory(dir string) TransportFactory {
	return func(s TransportSettings) (Transport, error) {
		t := newGoMailTransport(s)
		t.deliver = devDeliver(dir)
		return t, nil
	}
}

// devMetadata contains the message data saved to JSON (excluding the MIME content).
type devMetadata struct {
	Timestamp   string   `json:"timestamp"`
	MessageID   string   `json:"message_id"`
	From        []string `json:"from"`
	To          []string `json:"to"`
	Cc          []string `json:"cc,omitempty"`
	Bcc         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject"`
	Attachments int      `json:"attachments"`
}

func devDeliver(dir string) deliverFunc {
	return func(ctx context.Context, msg *mail.Msg) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Create output directory with proper permissions
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}

		// Generate timestamp-based filename for chronological ordering
		now := time.Now()
		subject := firstOrEmpty(msg.GetGenHeader(mail.HeaderSubject))
		baseFilename := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405.000000"), sanitizeFilename(subject))

		emlPath := filepath.Join(dir, baseFilename+".eml")
		if err := msg.WriteToFile(emlPath); err != nil {
			return fmt.Errorf("failed to write message file: %w", err)
		}

		metadata := devMetadata{
			Timestamp:   now.Format(time.RFC3339),
			MessageID:   msg.GetMessageID(),
			From:        msg.GetFromString(),
			To:          msg.GetToString(),
			Cc:          msg.GetCcString(),
			Bcc:         msg.GetBccString(),
			Subject:     subject,
			Attachments: len(msg.GetAttachments()),
		}

		jsonData, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		jsonPath := filepath.Join(dir, baseFilename+".json")
		if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
			return fmt.Errorf("failed to write metadata file: %w", err)
		}

		return nil
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// sanitizeRegex removes filesystem-unsafe characters from filenames
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a string into a safe filename.
// It replaces spaces with underscores, removes special characters,
// and truncates to a reasonable length.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	// Enforce length limit for filesystem compatibility
	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}

	if s == "" {
		s = "email"
	}

	return strings.ToLower(s)
}
