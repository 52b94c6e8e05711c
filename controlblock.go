package handle

import (
	"reflect"
	"sync/atomic"
	"unsafe"
)

// vtable is the control block's virtual dispatch surface (§4.1): every
// holder variant (value, fixed array, variable array, callable,
// head+trailing-array) supplies one, closing over its own type parameter
// so ControlBlock itself stays non-generic and can sit behind a single
// type-erased Handle.
type vtable struct {
	// typ identifies the payload type; two holders created for the same
	// underlying type must compare equal here (§4.3 "TypeTag identity").
	typ reflect.Type

	// destroy runs the payload's destructor-equivalent (a Destroy()
	// method when the payload implements one) and is called exactly once,
	// when strong count transitions 1->0.
	destroy func(self *ControlBlock)

	// asAny exposes the payload through a Go interface value so
	// Polymorphic can use ordinary interface type assertions in place of
	// the source's catch-based downcast (§4.3 note 3).
	asAny func(self *ControlBlock) any

	// payload returns the raw payload address for Unchecked/Exact casts.
	payload func(self *ControlBlock) unsafe.Pointer

	// recycle returns the holder's backing memory to its type's free
	// list once weak-count reaches zero (§3 "the allocation is freed").
	recycle func(self *ControlBlock)
}

// ControlBlock is the head record of every shared allocation in this
// package: an atomic strong count, an atomic weak count, and a vtable.
// It must never be copied after it is reachable from a Handle.
type ControlBlock struct {
	strong atomic.Int64
	weak   atomic.Int64
	vt     *vtable

	// expired is signaled exactly once, the moment strong count reaches
	// zero, so Weak.WaitUntilExpired can park without polling.
	expired trigger
}

// initControlBlock brings a freshly allocated control block to life with
// strong=1, weak=1 (the payload's own implicit weak token, invariant 2 of
// §3) and the given vtable.
func initControlBlock(cb *ControlBlock, vt *vtable) {
	cb.strong.Store(1)
	cb.weak.Store(1)
	cb.vt = vt
}

func (cb *ControlBlock) addrefStrong() {
	cb.strong.Add(1)
}

// releaseStrong decrements the strong count and, on the 1->0 edge,
// destroys the payload and releases the payload's implicit weak token.
// The strong 1->0 edge synchronizes-with the destructor call: Go's
// sync/atomic already provides acquire/release semantics on every atomic
// operation, so no additional fence is required here (§4.1 rationale).
func (cb *ControlBlock) releaseStrong() {
	if cb.strong.Add(-1) == 0 {
		cb.vt.destroy(cb)
		cb.expired.signal()
		cb.releaseWeak()
	}
}

func (cb *ControlBlock) addrefWeak() {
	cb.weak.Add(1)
}

// releaseWeak decrements the weak count and, on reaching zero, frees the
// backing allocation (returns it to its type's recycle pool).
func (cb *ControlBlock) releaseWeak() {
	if cb.weak.Add(-1) == 0 {
		cb.vt.recycle(cb)
	}
}

// upgrade attempts to raise strong from >0 to +1 (§4.4). Returns false if
// the payload was already dead.
func (cb *ControlBlock) upgrade() bool {
	for {
		s := cb.strong.Load()
		if s <= 0 {
			return false
		}
		if cb.strong.CompareAndSwap(s, s+1) {
			return true
		}
	}
}

func (cb *ControlBlock) strongCount() int64 { return cb.strong.Load() }
func (cb *ControlBlock) weakCount() int64   { return cb.weak.Load() }
func (cb *ControlBlock) typeTag() reflect.Type {
	if cb == nil {
		return nil
	}
	return cb.vt.typ
}
