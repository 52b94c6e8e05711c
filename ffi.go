package handle

import "unsafe"

// The plain-data "C-ABI" tagged value shipped alongside a handle core is
// deliberately out of scope (§1): it is an external collaborator that
// reuses none of this package's reference-counting machinery. What this
// package does own is the two hook points such a collaborator calls
// when it copies or clears an opaque handle embedded inside one of its
// tagged values, grounded on original_source/cobject.h's
// cobject_handle_copy / cobject_handle_clear macros.

// CGoHandleCopy duplicates ownership of a raw control-block pointer
// obtained from Handle.Release, for an embedding collaborator that
// copies an opaque handle by value.
func CGoHandleCopy(p unsafe.Pointer) unsafe.Pointer {
	if p == nil {
		return nil
	}
	(*ControlBlock)(p).addrefStrong()
	return p
}

// CGoHandleClear releases one ownership unit of a raw control-block
// pointer, for an embedding collaborator that clears an opaque handle.
func CGoHandleClear(p unsafe.Pointer) {
	if p == nil {
		return
	}
	(*ControlBlock)(p).releaseStrong()
}
