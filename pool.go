package handle

import "sync"

// recyclePool is a per-type free list for holder allocations, adapted from
// the teacher's NoGCUintptrPool (lib/soloos/sdbone/offheap/nogcuptrpool.go):
// that type hand-rolls a per-P local/shared split by linknaming runtime
// internals (runtime.UnsafeProcPin, runtime.UnsafeRaceEnabled) that are not
// part of the public Go API. sync.Pool already implements that exact
// per-P-local-with-shared-stealing design in the standard library, so this
// wraps it instead of reimplementing the linkname tricks.
//
// A recyclePool is only ever populated with holders whose control block has
// reached weak-count zero: at that point no Handle, Weak, Alias, or View
// anywhere can still observe the payload, so handing the backing memory
// back for reuse is safe.
type recyclePool[T any] struct {
	pool sync.Pool
}

func newRecyclePool[T any]() *recyclePool[T] {
	return &recyclePool[T]{
		pool: sync.Pool{New: func() any { return new(T) }},
	}
}

func (p *recyclePool[T]) get() *T {
	return p.pool.Get().(*T)
}

func (p *recyclePool[T]) put(v *T) {
	p.pool.Put(v)
}
