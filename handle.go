package handle

import (
	"reflect"
	"unsafe"
)

// Handle is the fundamental owning handle (§4.2): a nullable,
// reference-counted pointer to a Control Block. Every other handle
// variety in this package (Weak, Alias, ArrayHandle, Fn, Str, Fam) is
// built from one.
type Handle struct {
	cb *ControlBlock
}

// New allocates a value holder for v and returns a Handle owning it with
// strong=1, weak=1.
func New[T any](v T) Handle {
	return Handle{cb: newValueHolder(v)}
}

// Nil reports whether the handle is empty.
func (h Handle) Nil() bool { return h.cb == nil }

// Type returns the payload's TypeTag, or nil for an empty handle.
func (h Handle) Type() reflect.Type { return h.cb.typeTag() }

// Clone shares ownership (the "copy" operation): increments strong count
// and returns a new Handle to the same control block.
func (h Handle) Clone() Handle {
	if h.cb != nil {
		h.cb.addrefStrong()
	}
	return h
}

// Take transfers ownership out of h without touching the strong count
// (the "move" operation) and leaves h empty.
func (h *Handle) Take() Handle {
	out := Handle{cb: h.cb}
	h.cb = nil
	return out
}

// Close releases this handle's ownership share. It is self-safe to call
// more than once; a second Close on an already-empty handle is a no-op.
func (h *Handle) Close() {
	if h.cb != nil {
		h.cb.releaseStrong()
		h.cb = nil
	}
}

// Exchange atomically (from the caller's point of view — there is no
// concurrent access to a single Handle instance, per §5) replaces h's
// target with other and returns what h used to hold, without extra
// addref/release traffic: ownership of other's share moves into h, and
// h's previous share moves into the return value. Supplemented from
// original_source/object.hpp's `object::exchange`.
func (h *Handle) Exchange(other Handle) Handle {
	old := Handle{cb: h.cb}
	h.cb = other.cb
	return old
}

// StrongCount and WeakCount expose the raw counters, mainly for tests
// and diagnostics (S1 "Refcount").
func (h Handle) StrongCount() int64 {
	if h.cb == nil {
		return 0
	}
	return h.cb.strongCount()
}

func (h Handle) WeakCount() int64 {
	if h.cb == nil {
		return 0
	}
	return h.cb.weakCount()
}

// Equal compares by control-block identity, never by value (§3 rule 5).
func (h Handle) Equal(other Handle) bool { return h.cb == other.cb }

// Less imposes an arbitrary-but-stable identity order over handles, for
// use as a map/tree key; supplemented from object.hpp's `operator<`.
func (h Handle) Less(other Handle) bool {
	return uintptr(unsafe.Pointer(h.cb)) < uintptr(unsafe.Pointer(other.cb))
}

// Release detaches the control block pointer for FFI handoff without
// decrementing strong count (§6 "release() -> raw pointer"). The caller
// now owns that one strong reference and must eventually pass it back
// through FromRaw, or leak it.
func (h *Handle) Release() unsafe.Pointer {
	p := unsafe.Pointer(h.cb)
	h.cb = nil
	return p
}

// FromRaw re-adopts a pointer previously produced by Release, without
// incrementing strong count (the strong reference it already carries
// becomes this Handle's). Calling it with anything other than a pointer
// obtained from Release is undefined behavior.
func FromRaw(p unsafe.Pointer) Handle {
	return Handle{cb: (*ControlBlock)(p)}
}
