package mqtt311

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeLockSerializes(t *testing.T) {
	l := newExchangeLock()

	require.NoError(t, l.Acquire(context.Background()))
	assert.True(t, l.Locked())
	assert.False(t, l.TryAcquire())

	l.Release()
	assert.False(t, l.Locked())
	assert.True(t, l.TryAcquire())
	l.Release()
}

func TestExchangeLockAcquireHonoursContext(t *testing.T) {
	l := newExchangeLock()
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	l.Release()
}

func TestExchangeLockHandsOverToWaiter(t *testing.T) {
	l := newExchangeLock()
	require.NoError(t, l.Acquire(context.Background()))

	acquired := make(chan struct{})
	go func() {
		if err := l.Acquire(context.Background()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	l.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	l.Release()
}

func TestExchangeLockReleaseUnheldPanics(t *testing.T) {
	l := newExchangeLock()
	assert.Panics(t, func() { l.Release() })
}
