package handle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct{ id int }

// TestWeakExpiry is scenario S2 from spec.md §8.
func TestWeakExpiry(t *testing.T) {
	a := New(widget{id: 1})
	w := NewWeak(a)
	defer w.Close()

	assert.False(t, w.Expired())

	locked, ok := w.Lock()
	require.True(t, ok)
	assert.True(t, locked.Equal(a))
	locked.Close()

	a.Close()
	assert.True(t, w.Expired())

	_, ok = w.Lock()
	assert.False(t, ok)

	_, err := w.Strong()
	assert.ErrorIs(t, err, ErrBadWeakObject)
}

func TestWeakWaitUntilExpired(t *testing.T) {
	a := New(widget{id: 2})
	w := NewWeak(a)
	defer w.Close()

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = w.WaitUntilExpired(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	a.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitUntilExpired did not wake")
	}
}

func TestWeakWaitUntilExpiredCancellation(t *testing.T) {
	a := New(widget{id: 3})
	defer a.Close()
	w := NewWeak(a)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := w.WaitUntilExpired(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
