// Package ledger records which events have already produced a delivery, so a
// redelivered event can be recognised before anything is sent.
package ledger

import (
	"context"
	"errors"
	"time"
)

var ErrUnavailable = errors.New("ledger: backend unavailable")

// Ledger is a set of claimed keys with expiry.
type Ledger interface {
	// Claim atomically records key. It reports false when key is already
	// claimed and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key so a later attempt can claim it again.
	Release(ctx context.Context, key string) error
}
