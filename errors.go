package handle

import "errors"

var (
	// ErrBadObjectCast is returned by the reference-form casts when the
	// held type does not match the requested type, or the handle is null.
	ErrBadObjectCast = errors.New("handle: bad object cast")

	// ErrObjectNotFn is returned when a callable handle is invoked empty,
	// or constructed from a handle whose held type is not callable.
	ErrObjectNotFn = errors.New("handle: object is not a function")

	// ErrBadWeakObject is returned when a weak handle fails to upgrade.
	ErrBadWeakObject = errors.New("handle: weak object expired")

	// ErrOutOfRange is returned by bounds-checked array accessors.
	ErrOutOfRange = errors.New("handle: index out of range")
)
