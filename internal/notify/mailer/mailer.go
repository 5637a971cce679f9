// Package mailer delivers rendered notification emails through a provider.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("mailer: provider not configured")
	ErrNoRecipient   = errors.New("mailer: message has no recipient")
)

// Message is a fully rendered email ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message and returns the provider's delivery id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// APIError is a non-2xx response from an HTTP mail provider.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mailer: %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("mailer: %d: %s", e.StatusCode, e.Message)
}

func validate(msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	return nil
}
