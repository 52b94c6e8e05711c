package handle

import (
	"reflect"
	"sync"
	"unsafe"
)

// callableHolder backs the owning callable handle (§4.1 "Callable
// holder"). The source's signature R(A...) is rendered here as the
// concrete generic shape func(A) R: Go has no way to parameterize a
// single generic type over an arbitrary argument list, so a multi-
// argument call is modeled, idiomatically, by giving A a struct/tuple
// type at the call site — this already covers every scenario in §8 (S5
// is itself unary).
type callableHolder[A, R any] struct {
	cb ControlBlock
	fn func(A) R
}

var callableHolderPools sync.Map

func callablePool[A, R any]() *recyclePool[callableHolder[A, R]] {
	typ := reflect.TypeFor[func(A) R]()
	if v, ok := callableHolderPools.Load(typ); ok {
		return v.(*recyclePool[callableHolder[A, R]])
	}
	p := newRecyclePool[callableHolder[A, R]]()
	actual, _ := callableHolderPools.LoadOrStore(typ, p)
	return actual.(*recyclePool[callableHolder[A, R]])
}

func callableVTable[A, R any]() *vtable {
	typ := reflect.TypeFor[func(A) R]()
	return cachedVTable(vtableKey{kind: kindCallable, typ: typ}, func() *vtable {
		return &vtable{
			typ: typ,
			destroy: func(self *ControlBlock) {
				h := (*callableHolder[A, R])(unsafe.Pointer(self))
				h.fn = nil
			},
			asAny: func(self *ControlBlock) any {
				h := (*callableHolder[A, R])(unsafe.Pointer(self))
				return any(h.fn)
			},
			payload: func(self *ControlBlock) unsafe.Pointer {
				h := (*callableHolder[A, R])(unsafe.Pointer(self))
				return unsafe.Pointer(&h.fn)
			},
			recycle: func(self *ControlBlock) {
				h := (*callableHolder[A, R])(unsafe.Pointer(self))
				callablePool[A, R]().put(h)
			},
		}
	})
}

func newCallableHolder[A, R any](fn func(A) R) *ControlBlock {
	h := callablePool[A, R]().get()
	h.fn = fn
	initControlBlock(&h.cb, callableVTable[A, R]())
	return &h.cb
}

// Fn is the owning callable handle (§4.7): a Handle constrained to a
// callable holder.
type Fn[A, R any] struct{ h Handle }

// NewFn constructs an owning callable handle from any func(A) R value,
// including a capturing closure.
func NewFn[A, R any](fn func(A) R) Fn[A, R] {
	return Fn[A, R]{h: Handle{cb: newCallableHolder(fn)}}
}

// FnFromHandle attempts to narrow a generic Handle to a callable handle,
// failing with ErrObjectNotFn unless the runtime type tag matches
// func(A) R (§4.7).
func FnFromHandle[A, R any](h Handle) (Fn[A, R], error) {
	if h.cb == nil || h.cb.vt.typ != reflect.TypeFor[func(A) R]() {
		return Fn[A, R]{}, ErrObjectNotFn
	}
	return Fn[A, R]{h: h.Clone()}, nil
}

func (f Fn[A, R]) Handle() Handle { return f.h }

// Call invokes the wrapped function; calling an empty handle fails with
// ErrObjectNotFn.
func (f Fn[A, R]) Call(a A) (R, error) {
	var zero R
	if f.h.cb == nil {
		return zero, ErrObjectNotFn
	}
	fn := (*callableHolder[A, R])(unsafe.Pointer(f.h.cb)).fn
	if fn == nil {
		return zero, ErrObjectNotFn
	}
	return fn(a), nil
}

// Emplace replaces the contents with a newly constructed function,
// releasing whatever was held before.
func (f *Fn[A, R]) Emplace(fn func(A) R) {
	f.h.Close()
	*f = NewFn(fn)
}

func (f *Fn[A, R]) Close() { f.h.Close() }

// FnRef is the callable reference (§4.7): a pair of an owner Handle and
// the func(A) R it calls. A reference made by FnRefBorrow takes no share,
// so the caller must ensure the callable outlives it. A reference made by
// FnRefFrom is not non-owning: it holds its own strong share of the Fn's
// control block, which Close releases.
type FnRef[A, R any] struct {
	owner Handle // zero if borrowed rather than owned
	fn    func(A) R
}

// FnRefFrom constructs a reference from an owning callable handle, taking
// a strong share of it; it fails with ErrObjectNotFn if f is empty.
func FnRefFrom[A, R any](f Fn[A, R]) (FnRef[A, R], error) {
	if f.h.cb == nil {
		return FnRef[A, R]{}, ErrObjectNotFn
	}
	fn := (*callableHolder[A, R])(unsafe.Pointer(f.h.cb)).fn
	return FnRef[A, R]{owner: f.h.Clone(), fn: fn}, nil
}

// FnRefBorrow wraps any func(A) R without taking ownership; the caller
// is responsible for the function's lifetime.
func FnRefBorrow[A, R any](fn func(A) R) FnRef[A, R] {
	return FnRef[A, R]{fn: fn}
}

func (r FnRef[A, R]) Call(a A) (R, error) {
	var zero R
	if r.fn == nil {
		return zero, ErrObjectNotFn
	}
	return r.fn(a), nil
}

// Owning reports whether this reference was constructed from an owning
// Fn and, if so, returns it (conversion back is only possible then).
func (r FnRef[A, R]) Owning() (Fn[A, R], bool) {
	if r.owner.cb == nil {
		return Fn[A, R]{}, false
	}
	return Fn[A, R]{h: r.owner.Clone()}, true
}

func (r *FnRef[A, R]) Close() {
	r.owner.Close()
	r.fn = nil
}
