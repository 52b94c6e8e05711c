package handle

import (
	"reflect"
	"sync"
	"unsafe"
)

// destroyer lets a payload type participate in the destruction sequence
// the way a C++ destructor would; a payload that doesn't implement it is
// simply zeroed (Go's normal, GC-safe way to drop references).
type destroyer interface{ Destroy() }

func runDestroy[T any](v *T) {
	if d, ok := any(v).(destroyer); ok {
		d.Destroy()
	}
	var zero T
	*v = zero
}

// vtableKey distinguishes holder *kinds* (value vs. fixed/variable array
// vs. callable vs. FAM head) that happen to share an element type T, so
// a single cache can serve every factory in this package.
type vtableKey struct {
	kind uint8
	typ  reflect.Type
	elem reflect.Type
}

const (
	kindValue uint8 = iota
	kindArray
	kindCallable
	kindFamHead
)

var vtableCache sync.Map // vtableKey -> *vtable

func cachedVTable(key vtableKey, build func() *vtable) *vtable {
	if v, ok := vtableCache.Load(key); ok {
		return v.(*vtable)
	}
	vt := build()
	actual, _ := vtableCache.LoadOrStore(key, vt)
	return actual.(*vtable)
}

// valueHolder is the Control Block immediately followed by a single
// payload value, per §4.1 "Value holder" — one Go allocation holding
// both the counters and the value.
type valueHolder[T any] struct {
	cb    ControlBlock
	value T
}

var valueHolderPools sync.Map // reflect.Type -> *recyclePool[valueHolder[T]]

func valuePool[T any]() *recyclePool[valueHolder[T]] {
	typ := reflect.TypeFor[T]()
	if v, ok := valueHolderPools.Load(typ); ok {
		return v.(*recyclePool[valueHolder[T]])
	}
	p := newRecyclePool[valueHolder[T]]()
	actual, _ := valueHolderPools.LoadOrStore(typ, p)
	return actual.(*recyclePool[valueHolder[T]])
}

func valueVTable[T any]() *vtable {
	typ := reflect.TypeFor[T]()
	return cachedVTable(vtableKey{kind: kindValue, typ: typ}, func() *vtable {
		return &vtable{
			typ: typ,
			destroy: func(self *ControlBlock) {
				h := (*valueHolder[T])(unsafe.Pointer(self))
				runDestroy(&h.value)
			},
			asAny: func(self *ControlBlock) any {
				h := (*valueHolder[T])(unsafe.Pointer(self))
				return any(&h.value)
			},
			payload: func(self *ControlBlock) unsafe.Pointer {
				h := (*valueHolder[T])(unsafe.Pointer(self))
				return unsafe.Pointer(&h.value)
			},
			recycle: func(self *ControlBlock) {
				h := (*valueHolder[T])(unsafe.Pointer(self))
				valuePool[T]().put(h)
			},
		}
	})
}

// newValueHolder allocates (or recycles) a value holder and returns its
// control block with strong=1, weak=1.
func newValueHolder[T any](v T) *ControlBlock {
	h := valuePool[T]().get()
	h.value = v
	initControlBlock(&h.cb, valueVTable[T]())
	return &h.cb
}

func valuePayload[T any](cb *ControlBlock) *T {
	h := (*valueHolder[T])(unsafe.Pointer(cb))
	return &h.value
}
