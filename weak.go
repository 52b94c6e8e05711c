package handle

import "context"

// Weak is a non-owning observer of a control block (§4.4): it keeps the
// backing allocation alive (contributes to weak count) but never keeps
// the payload alive.
type Weak struct {
	cb *ControlBlock
}

// NewWeak constructs a Weak from a Handle, incrementing weak count.
func NewWeak(h Handle) Weak {
	if h.cb == nil {
		return Weak{}
	}
	h.cb.addrefWeak()
	return Weak{cb: h.cb}
}

// Close releases this Weak's contribution to weak count.
func (w *Weak) Close() {
	if w.cb != nil {
		w.cb.releaseWeak()
		w.cb = nil
	}
}

// Expired reports whether the payload has already been destroyed.
func (w Weak) Expired() bool {
	return w.cb == nil || w.cb.strongCount() <= 0
}

// Lock attempts to upgrade to a Handle, returning ok=false on failure
// without allocating anything.
func (w Weak) Lock() (h Handle, ok bool) {
	if w.cb == nil {
		return Handle{}, false
	}
	if !w.cb.upgrade() {
		return Handle{}, false
	}
	return Handle{cb: w.cb}, true
}

// Strong is the reference-form conversion: it fails with
// ErrBadWeakObject instead of returning ok=false (§4.4).
func (w Weak) Strong() (Handle, error) {
	h, ok := w.Lock()
	if !ok {
		return Handle{}, ErrBadWeakObject
	}
	return h, nil
}

// WaitUntilExpired blocks until strong count reaches zero or ctx is
// done. The matching notify is ControlBlock.releaseStrong's signal on
// the 1->0 edge (§4.4); there is no polling involved.
func (w Weak) WaitUntilExpired(ctx context.Context) error {
	if w.cb == nil {
		return nil
	}
	for {
		// Subscribe before checking: expired.signal fires exactly once,
		// on the 1->0 edge, so if it fires between a check and a
		// subsequent ready() call, the later ready() call would hand
		// back a fresh channel nothing will ever close again. Grabbing
		// the channel first closes that gap.
		ch := w.cb.expired.ready()
		if w.Expired() {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
