package mailer

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskmail/pkg/idx"
	"github.com/aussiebroadwan/taskmail/pkg/slogx"
)

// Ensure Log implements Sender
var _ Sender = Log{}

// Log writes messages to the contextual logger instead of delivering them.
// Used for local development and the end-to-end suite.
type Log struct{}

func (Log) Send(ctx context.Context, msg Message) (id string, err error) {
	start := time.Now()
	defer func() { observe("log", start, err) }()

	if err := validate(msg); err != nil {
		return "", err
	}

	id = idx.Prefixed("log")
	slogx.FromContext(ctx).Info("email",
		"delivery_id", id,
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return id, nil
}
