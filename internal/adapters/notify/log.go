package notify

import (
	"context"
	"log"
)

// LogSender writes messages to the log instead of sending them (development)
type LogSender struct{}

// NewLogSender creates a log sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message envelope
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("📧 [dev] email to=%s subject=%q attachments=%d", msg.To, msg.Subject, len(msg.Attachments))
	return nil
}
