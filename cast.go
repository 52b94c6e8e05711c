package handle

import (
	"fmt"
	"reflect"
)

// Unchecked returns the payload address assuming the type matches,
// without checking the recorded TypeTag (§4.3 "unchecked cast"). Calling
// it against a handle that does not hold a T is undefined behavior.
func Unchecked[T any](h Handle) *T {
	if h.cb == nil {
		return nil
	}
	return (*T)(h.cb.vt.payload(h.cb))
}

// Exact compares the holder's TypeTag against T and returns the payload
// address only on an exact match; it returns nil rather than failing
// (§4.3 "pointer form").
func Exact[T any](h Handle) *T {
	if h.cb == nil || h.cb.vt.typ != reflect.TypeFor[T]() {
		return nil
	}
	return (*T)(h.cb.vt.payload(h.cb))
}

// MustExact is Exact's reference form: it fails with ErrBadObjectCast on
// mismatch or a null handle instead of returning nil (§4.3).
func MustExact[T any](h Handle) (*T, error) {
	if p := Exact[T](h); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: want %s", ErrBadObjectCast, reflect.TypeFor[T]())
}

// Polymorphic resolves whether the held payload satisfies interface B,
// standing in for the source's catch-based downcast-through-inheritance
// (§4.3 note: "An implementer on a language without exceptions may
// substitute any equivalent runtime upcast facility" — Go's own
// interface satisfaction is exactly that facility). It returns the zero
// value of B and false on mismatch or a null handle.
func Polymorphic[B any](h Handle) (B, bool) {
	var zero B
	if h.cb == nil {
		return zero, false
	}
	v := h.cb.vt.asAny(h.cb)
	if b, ok := v.(B); ok {
		return b, true
	}
	return zero, false
}

// MustPolymorphic is Polymorphic's reference form.
func MustPolymorphic[B any](h Handle) (B, error) {
	b, ok := Polymorphic[B](h)
	if !ok {
		return b, ErrBadObjectCast
	}
	return b, nil
}
