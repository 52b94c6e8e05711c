package handle

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// View is a plain, non-owning {pointer, length} pair (§4.6); its
// lifetime is borrowed from whatever produced it.
type View[T any] struct {
	data *T
	len  int
}

// ViewOf builds a View over any contiguous container exposing Data/Len,
// the way ArrayHandle does.
func ViewOf[T any](data *T, length int) View[T] { return View[T]{data: data, len: length} }

func (v View[T]) Len() int { return v.len }

func (v View[T]) slice() []T {
	if v.data == nil || v.len == 0 {
		return nil
	}
	return unsafe.Slice(v.data, v.len)
}

// At is the bounds-checked accessor (§4.6); it fails with ErrOutOfRange.
func (v View[T]) At(i int) (*T, error) {
	if i < 0 || i >= v.len {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, v.len)
	}
	return &v.slice()[i], nil
}

func (v View[T]) First() (*T, error) { return v.At(0) }
func (v View[T]) Last() (*T, error)  { return v.At(v.len - 1) }

// Sub returns the subspan [from, to).
func (v View[T]) Sub(from, to int) (View[T], error) {
	if from < 0 || to > v.len || from > to {
		return View[T]{}, fmt.Errorf("%w: sub [%d:%d), length %d", ErrOutOfRange, from, to, v.len)
	}
	if to == from {
		return View[T]{}, nil
	}
	return View[T]{data: &v.slice()[from], len: to - from}, nil
}

// ByteSize reports the view's size in bytes.
func (v View[T]) ByteSize() uintptr {
	var zero T
	return uintptr(v.len) * unsafe.Sizeof(zero)
}

// All iterates the view's elements in order.
func (v View[T]) All() []T { return v.slice() }

// arrayHolder backs both the "fixed" and "variable" array holders of
// §4.1: Go has no type distinct from a runtime-length slice for "length
// known at compile time", so both collapse onto one holder kind here.
// Unlike the source's inline trailing array, the element
// backing is a second, ordinarily-GC-tracked allocation: storing
// arbitrary (possibly pointer-containing) T packed byte-for-byte next to
// the control block would hide those pointers from the garbage
// collector, which is unsound in Go regardless of T.
type arrayHolder[T any] struct {
	cb   ControlBlock
	data []T
}

var arrayHolderPools sync.Map

func arrayPool[T any]() *recyclePool[arrayHolder[T]] {
	typ := reflect.TypeFor[T]()
	if v, ok := arrayHolderPools.Load(typ); ok {
		return v.(*recyclePool[arrayHolder[T]])
	}
	p := newRecyclePool[arrayHolder[T]]()
	actual, _ := arrayHolderPools.LoadOrStore(typ, p)
	return actual.(*recyclePool[arrayHolder[T]])
}

func arrayVTable[T any]() *vtable {
	typ := reflect.TypeFor[T]()
	return cachedVTable(vtableKey{kind: kindArray, typ: typ}, func() *vtable {
		return &vtable{
			typ: typ,
			destroy: func(self *ControlBlock) {
				h := (*arrayHolder[T])(unsafe.Pointer(self))
				// Destruction runs reverse order, length-1 down to 0
				// (§4.1, testable property 6 "Array destruction order").
				for i := len(h.data) - 1; i >= 0; i-- {
					runDestroy(&h.data[i])
				}
				h.data = nil
			},
			asAny: func(self *ControlBlock) any {
				h := (*arrayHolder[T])(unsafe.Pointer(self))
				return any(h.data)
			},
			payload: func(self *ControlBlock) unsafe.Pointer {
				h := (*arrayHolder[T])(unsafe.Pointer(self))
				if len(h.data) == 0 {
					return nil
				}
				return unsafe.Pointer(&h.data[0])
			},
			recycle: func(self *ControlBlock) {
				h := (*arrayHolder[T])(unsafe.Pointer(self))
				arrayPool[T]().put(h)
			},
		}
	})
}

func newArrayHolder[T any](n int) *ControlBlock {
	h := arrayPool[T]().get()
	h.data = make([]T, n)
	initControlBlock(&h.cb, arrayVTable[T]())
	return &h.cb
}

func arrayData[T any](cb *ControlBlock) []T {
	h := (*arrayHolder[T])(unsafe.Pointer(cb))
	return h.data
}

// ArrayHandle is a Handle constrained to array holders (§4.6).
type ArrayHandle[T any] struct{ h Handle }

// NewArray allocates a length-n array, zero-initialized the way Go
// always initializes memory (the source's "negative n => default/
// uninitialized elements" distinction has no GC-safe counterpart here).
func NewArray[T any](n int) ArrayHandle[T] {
	return ArrayHandle[T]{h: Handle{cb: newArrayHolder[T](n)}}
}

// NewArrayFrom copies values into a freshly allocated array holder,
// standing in for the source's "construct up to K<=N elements from
// supplied arguments".
func NewArrayFrom[T any](values ...T) ArrayHandle[T] {
	a := NewArray[T](len(values))
	copy(arrayData[T](a.h.cb), values)
	return a
}

func (a ArrayHandle[T]) Handle() Handle { return a.h }
func (a ArrayHandle[T]) Len() int       { return len(arrayData[T](a.h.cb)) }
func (a ArrayHandle[T]) Data() []T      { return arrayData[T](a.h.cb) }

func (a ArrayHandle[T]) At(i int) (*T, error) {
	data := arrayData[T](a.h.cb)
	if i < 0 || i >= len(data) {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, len(data))
	}
	return &data[i], nil
}

func (a ArrayHandle[T]) View() View[T] {
	data := arrayData[T](a.h.cb)
	if len(data) == 0 {
		return View[T]{}
	}
	return View[T]{data: &data[0], len: len(data)}
}

// Emplace replaces the current payload with a freshly allocated array of
// length n (n=0 => empty), first releasing this handle's share of the
// previous contents (they are destroyed only if that was the last share).
func (a *ArrayHandle[T]) Emplace(n int) {
	a.h.Close()
	*a = NewArray[T](n)
}

func (a *ArrayHandle[T]) Close() { a.h.Close() }
