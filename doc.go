// Package handle implements a unified, reference-counted, type-erased
// value container: one control-block-and-holder allocation layout
// underlying a family of handle types — the owning Handle, the
// non-owning Weak observer, Alias/Ref interior pointers, ArrayHandle,
// the callable wrappers Fn/FnRef, the compact Str string handle, the
// head+trailing-array Fam handle, and the lock/condvar-capable Cell.
//
// Ownership discipline: every handle type in this package (Handle,
// Weak, Alias, Ref, ArrayHandle, Fn, FnRef, Str, Fam) is a small Go
// struct wrapping a *ControlBlock, and Go struct assignment is a plain
// memory copy — it does not run a copy constructor. Assigning one of
// these values to a second variable does NOT share an additional
// reference count the way a C++ copy constructor would; it only
// duplicates the pointer. Call Clone() (or the type's equivalent) to
// obtain a second, independently closeable owner, and treat a plain Go
// assignment as a move: only one of the resulting variables may
// legally call Close.
package handle
