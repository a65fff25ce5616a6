// Package notify delivers registry emails through a pluggable provider.
package notify

//go:generate mockgen -source=sender.go -destination=mocks/mock_sender.go -package=mocks Sender

import (
	"context"
	"errors"
)

// ErrPermanent marks a delivery failure that retrying cannot fix
var ErrPermanent = errors.New("permanent delivery failure")

// Attachment is a file sent with a message
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Message is one outbound email
type Message struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Sender delivers a message or returns why it could not
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
