package handle

import (
	"reflect"
	"sync"
	"unsafe"
)

// famHolder is the head+trailing-array composite holder (§4.1): one
// control block shared by the head value and the trailing array. The
// struct holds the control block, the array's slice header and the head;
// the array elements live in the slice's own, separate allocation.
type famHolder[H, E any] struct {
	cb    ControlBlock
	array []E
	head  H
}

var famHolderPools sync.Map

type famPoolKey struct{ head, elem reflect.Type }

func famPool[H, E any]() *recyclePool[famHolder[H, E]] {
	key := famPoolKey{head: reflect.TypeFor[H](), elem: reflect.TypeFor[E]()}
	if v, ok := famHolderPools.Load(key); ok {
		return v.(*recyclePool[famHolder[H, E]])
	}
	p := newRecyclePool[famHolder[H, E]]()
	actual, _ := famHolderPools.LoadOrStore(key, p)
	return actual.(*recyclePool[famHolder[H, E]])
}

func famVTable[H, E any]() *vtable {
	typ := reflect.TypeFor[H]()
	return cachedVTable(vtableKey{kind: kindFamHead, typ: typ, elem: reflect.TypeFor[E]()}, func() *vtable {
		return &vtable{
			typ: typ,
			destroy: func(self *ControlBlock) {
				h := (*famHolder[H, E])(unsafe.Pointer(self))
				// Head first, then the array in reverse order (§4.9).
				runDestroy(&h.head)
				for i := len(h.array) - 1; i >= 0; i-- {
					runDestroy(&h.array[i])
				}
				h.array = nil
			},
			asAny: func(self *ControlBlock) any {
				h := (*famHolder[H, E])(unsafe.Pointer(self))
				return any(&h.head)
			},
			payload: func(self *ControlBlock) unsafe.Pointer {
				h := (*famHolder[H, E])(unsafe.Pointer(self))
				return unsafe.Pointer(&h.head)
			},
			recycle: func(self *ControlBlock) {
				h := (*famHolder[H, E])(unsafe.Pointer(self))
				famPool[H, E]().put(h)
			},
		}
	})
}

// Fam is the FAM Handle (§4.9): a Handle constrained to head+trailing-
// array holders, exposing the head by aliasing-pointer semantics and
// the array by View.
type Fam[H, E any] struct{ h Handle }

// NewFam constructs a head+trailing-array composite: the array of
// length n is built first (via elemAt, called once per index), then the
// head (via buildHead, given a pointer to its final, in-place storage
// plus the now-populated array so it may read or mutate it), per §4.9's
// construction order. buildHead writes into *head directly rather than
// returning a value, so that FamArray(head) is already valid — head is
// at its permanent address inside the holder, not a local about to be
// copied — and can be called from within buildHead itself (§4.9 "works
// from head constructors").
func NewFam[H, E any](n int, elemAt func(i int) E, buildHead func(head *H, array []E)) Fam[H, E] {
	fh := famPool[H, E]().get()
	fh.array = make([]E, n)
	for i := range fh.array {
		fh.array[i] = elemAt(i)
	}
	initControlBlock(&fh.cb, famVTable[H, E]())
	buildHead(&fh.head, fh.array)
	return Fam[H, E]{h: Handle{cb: &fh.cb}}
}

func (f Fam[H, E]) Handle() Handle { return f.h }

func (f Fam[H, E]) Head() *H {
	fh := (*famHolder[H, E])(unsafe.Pointer(f.h.cb))
	return &fh.head
}

// Array returns the trailing Array View.
func (f Fam[H, E]) Array() View[E] {
	fh := (*famHolder[H, E])(unsafe.Pointer(f.h.cb))
	if len(fh.array) == 0 {
		return View[E]{}
	}
	return View[E]{data: &fh.array[0], len: len(fh.array)}
}

func (f *Fam[H, E]) Close() { f.h.Close() }

// FamArray recovers the trailing Array View given only a raw pointer to
// the head — the static `array(head_ptr)` primitive of §4.9, usable
// from the head's own constructor or destructor. It computes the
// holder's base address by subtracting the head field's offset within
// famHolder[H, E].
func FamArray[H, E any](head *H) View[E] {
	var probe famHolder[H, E]
	offset := unsafe.Offsetof(probe.head)
	base := unsafe.Pointer(uintptr(unsafe.Pointer(head)) - offset)
	fh := (*famHolder[H, E])(base)
	if len(fh.array) == 0 {
		return View[E]{}
	}
	return View[E]{data: &fh.array[0], len: len(fh.array)}
}
