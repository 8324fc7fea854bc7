package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLocker keeps leases in process memory
type MemoryLocker struct {
	mu    sync.RWMutex
	items map[string]*Lease
}

// NewMemoryLocker creates a new in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		items: make(map[string]*Lease),
	}
}

func (m *MemoryLocker) TryAcquire(_ context.Context, key, operation string) (*Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.items[key]; ok {
		return nil, fmt.Errorf("%s is running %s: %w", key, held.Operation, ErrHeld)
	}

	lease := &Lease{
		Key:        key,
		Token:      uuid.NewString(),
		Operation:  operation,
		AcquiredAt: time.Now().UTC(),
	}
	m.items[key] = lease
	return lease, nil
}

func (m *MemoryLocker) Release(_ context.Context, lease *Lease) error {
	if lease == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// only the owner may delete
	if held, ok := m.items[lease.Key]; ok && held.Token == lease.Token {
		delete(m.items, lease.Key)
	}
	return nil
}

func (m *MemoryLocker) Holder(_ context.Context, key string) (*Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	held, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	cp := *held
	return &cp, nil
}
