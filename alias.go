package handle

import "unsafe"

// Alias is a Strong Handle plus a raw interior pointer (§4.5): the
// handle supplies the lifetime, the pointer may point anywhere inside
// storage guaranteed to live at least as long as that ownership share.
type Alias[T any] struct {
	owner Handle
	ptr   *T
}

// AliasOf constructs an Alias whose interior pointer is the payload
// itself, obtained by an exact cast (§4.5 "From a Strong Handle only").
// It returns ErrBadObjectCast if h does not hold a T, matching every
// other reference-form cast in this package.
func AliasOf[T any](h Handle) (Alias[T], error) {
	p := Exact[T](h)
	if p == nil {
		return Alias[T]{}, ErrBadObjectCast
	}
	return Alias[T]{owner: h.Clone(), ptr: p}, nil
}

// AliasWith constructs an Alias from a Handle plus an explicit raw
// pointer: the handle supplies lifetime, the pointer is taken verbatim,
// or — if nil — recovered via Polymorphic against T (§4.5 "plus an
// explicit raw pointer").
func AliasWith[T any](h Handle, ptr *T) Alias[T] {
	if ptr == nil {
		if b, ok := Polymorphic[*T](h); ok {
			ptr = b
		}
	}
	return Alias[T]{owner: h.Clone(), ptr: ptr}
}

// Get returns the interior pointer, or nil for an empty/unresolved
// alias.
func (a Alias[T]) Get() *T { return a.ptr }

// Close releases the owning handle's share.
func (a *Alias[T]) Close() {
	a.owner.Close()
	a.ptr = nil
}

// Owner returns a cloned Handle sharing this alias's control block, for
// constructing a sibling Alias into the same allocation (§4.5 "&ref_to_t
// returns an aliasing Pointer to the same interior, sharing the
// handle").
func (a Alias[T]) Owner() Handle { return a.owner.Clone() }

// Ref is the reference variant of Alias: it forbids a nil interior
// pointer at construction.
type Ref[T any] struct{ alias Alias[T] }

// RefOf is AliasOf's reference-form counterpart; it returns
// ErrBadObjectCast (rather than a Ref with a nil pointer) if h does not
// hold a T.
func RefOf[T any](h Handle) (Ref[T], error) {
	a, err := AliasOf[T](h)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{alias: a}, nil
}

// RefWith mirrors AliasWith but fails with ErrBadObjectCast when no
// non-nil interior pointer can be resolved.
func RefWith[T any](h Handle, ptr *T) (Ref[T], error) {
	a := AliasWith(h, ptr)
	if a.ptr == nil {
		a.Close()
		return Ref[T]{}, ErrBadObjectCast
	}
	return Ref[T]{alias: a}, nil
}

func (r Ref[T]) Get() *T          { return r.alias.ptr }
func (r *Ref[T]) Close()          { r.alias.Close() }
func (r Ref[T]) Owner() Handle    { return r.alias.Owner() }

// FromRawPayload reconstructs a Handle from a raw pointer known to point at a
// value holder's payload (the "shared from this" primitive, §4.5): it
// computes the control block address by subtracting the payload's
// offset within the holder and increments strong count. Safe to call
// from T's own methods (the control block is already live with
// strong>=1); calling it from a destructor is undefined behavior, since
// by then strong has already reached zero.
func FromRawPayload[T any](payload *T) Handle {
	var probe valueHolder[T]
	offset := unsafe.Offsetof(probe.value)
	base := unsafe.Pointer(uintptr(unsafe.Pointer(payload)) - offset)
	cb := (*ControlBlock)(base)
	cb.addrefStrong()
	return Handle{cb: cb}
}
