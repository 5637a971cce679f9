// Package idx mints ULID identifiers. Scheduled run ids, request ids and
// locally generated delivery ids all come from here, so they sort by creation
// time in logs.
package idx

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a 26 character ULID.
type ID string

var (
	mu sync.Mutex

	// ulid.MonotonicEntropy is not safe for concurrent use.
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New mints an ID for the current time.
func New() ID {
	return NewAt(time.Now())
}

// NewAt mints an ID for t. IDs minted within the same millisecond still sort
// in call order.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Prefixed mints "<kind>_<ulid>", e.g. "reminders_01J...".
func Prefixed(kind string) string {
	return kind + "_" + string(New())
}

// Split separates a Prefixed string into its kind and ID. kind is empty for
// a bare ID.
func Split(s string) (kind string, id ID) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return "", ID(s)
	}
	return s[:i], ID(s[i+1:])
}

// Time returns the creation time encoded in id, in UTC.
func (id ID) Time() (time.Time, error) {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}

func (id ID) String() string { return string(id) }
