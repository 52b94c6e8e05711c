package handle

import (
	"context"
	"sync/atomic"
	"unsafe"
)

// cellTag is the low 2 bits of a Cell's word (§4.10).
type cellTag uintptr

const (
	cellFree cellTag = iota
	cellLocked
	cellWaiting
	cellCondition
)

// Cell is a single atomic pointer-width word that simultaneously holds a
// Handle and a 2-bit lock/wait/condition tag (§4.10). It doubles as a
// spinlock/mutex and a condition variable over the same word, so a
// Cell never needs a separately allocated sync.Mutex.
//
// Go's sync/atomic has no public futex-style wait/wake syscall (unlike
// the platform atomic-wait primitive the core spec assumes), so parking
// is built on the trigger broadcast idiom (trigger.go) rather than a
// spin loop — see Design Notes §9 and SPEC_FULL.md's Atomic Cell entry.
//
// A zero Cell is FREE with a nil handle and is ready to use.
type Cell struct {
	word atomic.Uintptr
	wake trigger
}

func cellPack(cb *ControlBlock, tag cellTag) uintptr {
	return uintptr(unsafe.Pointer(cb)) | uintptr(tag)
}

func cellPtr(v uintptr) *ControlBlock { return (*ControlBlock)(unsafe.Pointer(v & cellPtrMask)) }
func cellTagOf(v uintptr) cellTag     { return cellTag(v & cellTagMask) }

// lockAndLoad is the primitive of §4.10: it becomes the exclusive tag
// holder (LOCKED) and returns the control block currently stored,
// without touching its strong count.
func (c *Cell) lockAndLoad(ctx context.Context) (*ControlBlock, error) {
	for {
		v := c.word.Load()
		ptr := cellPtr(v)
		switch cellTagOf(v) {
		case cellFree, cellCondition:
			if c.word.CompareAndSwap(v, cellPack(ptr, cellLocked)) {
				return ptr, nil
			}
		case cellLocked:
			ch := c.wake.ready()
			if c.word.CompareAndSwap(v, cellPack(ptr, cellWaiting)) {
				select {
				case <-ch:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		case cellWaiting:
			ch := c.wake.ready()
			// Re-verify the word is still what we observed before
			// parking: if a storeAndUnlock already ran (and signaled)
			// in the gap between Load and ready(), ready() just handed
			// back a fresh, never-to-be-closed channel for the next
			// generation, and waiting on it would hang forever even
			// though the cell is free. The CAS-to-same-value here
			// detects that case (it fails) and sends us back around
			// the loop instead of parking on a stale channel.
			if !c.word.CompareAndSwap(v, v) {
				continue
			}
			select {
			case <-ch:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
}

// storeAndUnlock is the other primitive of §4.10: it exchanges the word
// for newPtr tagged FREE and, if the previous tag was WAITING, wakes
// every parked waiter.
func (c *Cell) storeAndUnlock(newPtr *ControlBlock) {
	old := c.word.Swap(cellPack(newPtr, cellFree))
	if cellTagOf(old) == cellWaiting {
		c.wake.signal()
	}
}

// Load returns a new strong share of the currently stored handle.
func (c *Cell) Load(ctx context.Context) (Handle, error) {
	ptr, err := c.lockAndLoad(ctx)
	if err != nil {
		return Handle{}, err
	}
	if ptr != nil {
		ptr.addrefStrong()
	}
	c.storeAndUnlock(ptr)
	return Handle{cb: ptr}, nil
}

// Store replaces the cell's content with h (whose strong share moves
// into the cell — treat h as consumed after the call) and returns
// whatever share the cell held before, which the caller must Close.
func (c *Cell) Store(ctx context.Context, h Handle) (Handle, error) {
	old, err := c.lockAndLoad(ctx)
	if err != nil {
		return Handle{}, err
	}
	c.storeAndUnlock(h.cb)
	return Handle{cb: old}, nil
}

// Exchange is Store under the name the spec gives the same operation.
func (c *Cell) Exchange(ctx context.Context, h Handle) (Handle, error) {
	return c.Store(ctx, h)
}

// CompareExchangeStrong compares the stored handle against *expected by
// control-block identity. On a match it stores desired (transferring
// desired's share into the cell and dropping the cell's former share of
// the matched value) and returns true. On a mismatch it leaves the cell
// unchanged, closes *expected's old share, overwrites *expected with a
// freshly addref'd share of the observed value, and returns false.
func (c *Cell) CompareExchangeStrong(ctx context.Context, expected *Handle, desired Handle) (bool, error) {
	cur, err := c.lockAndLoad(ctx)
	if err != nil {
		return false, err
	}
	if cur == expected.cb {
		if cur != nil {
			cur.releaseStrong()
		}
		c.storeAndUnlock(desired.cb)
		return true, nil
	}
	if cur != nil {
		cur.addrefStrong()
	}
	c.storeAndUnlock(cur)
	expected.Close()
	*expected = Handle{cb: cur}
	return false, nil
}

// CompareExchangeWeak has the same contract as CompareExchangeStrong:
// Go's atomic.Uintptr.CompareAndSwap has no spurious-failure mode for
// this package to expose, so there is no weaker variant to implement.
func (c *Cell) CompareExchangeWeak(ctx context.Context, expected *Handle, desired Handle) (bool, error) {
	return c.CompareExchangeStrong(ctx, expected, desired)
}

// TryLock attempts to acquire the cell as a spinlock without blocking.
func (c *Cell) TryLock() bool {
	v := c.word.Load()
	if cellTagOf(v) != cellFree && cellTagOf(v) != cellCondition {
		return false
	}
	return c.word.CompareAndSwap(v, cellPack(cellPtr(v), cellLocked))
}

// Lock acquires the cell as a spinlock/mutex, blocking until available.
func (c *Cell) Lock(ctx context.Context) error {
	_, err := c.lockAndLoad(ctx)
	return err
}

// Unlock releases the lock, preserving whatever handle value is
// currently stored.
func (c *Cell) Unlock() {
	v := c.word.Load()
	c.storeAndUnlock(cellPtr(v))
}

// Wait is the condition-variable primitive (§4.10): the caller must
// already hold the lock. It atomically marks the word CONDITION
// (releasing the lock to other lockers), parks until notified, reacquires
// the lock, and re-tests pred, repeating until pred returns true.
func (c *Cell) Wait(ctx context.Context, pred func() bool) error {
	for !pred() {
		v := c.word.Load()
		ptr := cellPtr(v)
		ch := c.wake.ready()
		old := c.word.Swap(cellPack(ptr, cellCondition))
		if cellTagOf(old) == cellWaiting {
			// Someone was parked waiting to acquire the lock we're
			// about to release into CONDITION; wake them too, or
			// they'd sleep until an unrelated signal reached them.
			c.wake.signal()
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		if _, err := c.lockAndLoad(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NotifyAll wakes every thread parked on the cell. The caller must hold
// the lock (§4.10).
func (c *Cell) NotifyAll() { c.wake.signal() }

// NotifyOne is, in this implementation, identical to NotifyAll: the
// channel-broadcast parking primitive (trigger.go) has no mechanism to
// wake exactly one of several waiters, so every notify wakes the whole
// set and the losers re-park. This is the same conservative trade-off
// other_examples/creachadair-msync__msync.go's Trigger makes.
func (c *Cell) NotifyOne() { c.wake.signal() }
