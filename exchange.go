package mqtt311

import "context"

// exchangeLock serializes protocol exchanges on the single socket.
//
// Any operation that transmits and then awaits a specific reply -
// SUBSCRIBE/SUBACK, UNSUBSCRIBE/UNSUBACK, QoS 1 PUBLISH/PUBACK - holds
// the lock for the whole exchange so that a second operation cannot
// interleave its packets or steal the acknowledgement. A QoS 0 publish
// holds the wire lock only for the write. The inbound dispatcher never
// takes the exchange lock; it signals waiters through channels and
// takes the wire lock only to write the PUBACK for a QoS 1 delivery.
type exchangeLock struct {
	ch chan struct{}
}

func newExchangeLock() *exchangeLock {
	return &exchangeLock{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is held or the context ends.
func (l *exchangeLock) Acquire(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire acquires the lock without blocking.
func (l *exchangeLock) TryAcquire() bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release releases the lock. Releasing an unheld lock panics, as it
// would for sync.Mutex.
func (l *exchangeLock) Release() {
	select {
	case <-l.ch:
	default:
		panic("mqtt311: release of unheld exchange lock")
	}
}

// Locked reports whether the lock is currently held.
func (l *exchangeLock) Locked() bool {
	return len(l.ch) == 1
}
