package handle

import (
	"context"
	"sync"
)

// trigger is an edge-triggered broadcast condition, grounded on
// other_examples/creachadair-msync__msync.go's Trigger. It is the parking
// primitive behind Weak.WaitUntilExpired and the Atomic Cell's
// lock/wait/notify state machine: Go's sync/atomic package exposes no
// public futex-style atomic-wait syscall (unlike the platform primitive
// the core spec assumes), so every "park on this word, wake on that
// store" point in this package is built on the same channel-broadcast
// idiom instead of a busy spin.
//
// A zero value is ready to use and must not be copied after first use.
type trigger struct {
	mu sync.Mutex
	ch chan struct{}
}

// ready returns a channel that is closed the next time signal is called.
func (t *trigger) ready() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch == nil {
		t.ch = make(chan struct{})
	}
	return t.ch
}

// signal wakes every goroutine currently parked on ready and rearms the
// trigger for the next cycle.
func (t *trigger) signal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch == nil {
		return
	}
	close(t.ch)
	t.ch = nil
}

// wait blocks until the next signal or until ctx is done.
func (t *trigger) wait(ctx context.Context) error {
	ch := t.ready()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
