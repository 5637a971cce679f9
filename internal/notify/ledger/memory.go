package ledger

import (
	"context"
	"sync"
	"time"
)

var _ Ledger = (*Memory)(nil)

// Memory is a process-local Ledger. Claims do not survive a restart.
type Memory struct {
	mu     sync.Mutex
	claims map[string]time.Time // key -> expiry
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{claims: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if exp, ok := m.claims[key]; ok && now.Before(exp) {
		return false, nil
	}

	// Drop expired entries while holding the lock.
	for k, exp := range m.claims {
		if !now.Before(exp) {
			delete(m.claims, k)
		}
	}

	m.claims[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.claims, key)
	return nil
}
