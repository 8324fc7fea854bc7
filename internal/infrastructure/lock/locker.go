// Package lock provides per-key mutual exclusion for session mutations.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrHeld is returned when another holder owns the key
var ErrHeld = errors.New("lock already held")

// Lease is a held exclusion on one key
type Lease struct {
	Key        string    `json:"-"`
	Token      string    `json:"token"`
	Operation  string    `json:"operation"`
	AcquiredAt time.Time `json:"acquired_at"`

	raw  string
	stop context.CancelFunc
}

// Locker grants non-blocking exclusive leases keyed by session id
type Locker interface {
	// TryAcquire takes key for operation, failing with ErrHeld instead of waiting
	TryAcquire(ctx context.Context, key, operation string) (*Lease, error)
	// Release frees the lease; releasing a lease that was lost is not an error
	Release(ctx context.Context, lease *Lease) error
	// Holder returns the current lease on key, or nil when free
	Holder(ctx context.Context, key string) (*Lease, error)
}

// keepAlive calls refresh every interval until the returned func is called or
// refresh reports the lease lost. Refresh errors are retried on the next tick.
func keepAlive(interval time.Duration, refresh func(ctx context.Context) (bool, error)) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				held, err := refresh(ctx)
				if err == nil && !held {
					return
				}
			}
		}
	}()
	return cancel
}
