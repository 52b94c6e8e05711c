package handle

import (
	"unsafe"
)

// emptyCString is the target of CStr() on a null Str, so CStr() never
// itself returns nil (§4.8).
var emptyCString byte

// Str is the String Handle (§4.8). The source packs it into a single
// pointer by reconstructing the control block through pointer
// arithmetic against the payload; here the byte payload is its own
// (pointer-free, GC-safe) slice allocation rather than laid out
// byte-for-byte after the control block, so that arithmetic does not
// hold — per Design Notes §9 ("an implementation may instead make the
// string handle a normal (ControlBlock*, char*) pair and document the
// size difference"), Str is that two-word pair instead of one pointer.
type Str struct {
	h   Handle
	ptr *byte
}

func newStrBytes(b []byte) Str {
	a := newArrayHolder[byte](len(b) + 1)
	data := arrayData[byte](a)
	copy(data, b)
	data[len(b)] = 0
	return Str{h: Handle{cb: a}, ptr: &data[0]}
}

// NewStr constructs a Str from a Go string, copying it plus a trailing
// NUL into a fresh byte array holder.
func NewStr(s string) Str { return newStrBytes([]byte(s)) }

// NewStrRepeat constructs a Str of count copies of ch (the source's
// "(count, ch)" constructor).
func NewStrRepeat(count int, ch byte) Str {
	b := make([]byte, count)
	for i := range b {
		b[i] = ch
	}
	return newStrBytes(b)
}

// StrFromHandle narrows a generic Handle to a Str, failing unless the
// held type is a byte array holder whose last element is the
// terminating zero.
func StrFromHandle(h Handle) (Str, error) {
	if h.cb == nil || h.cb.vt.typ == nil {
		return Str{}, ErrBadObjectCast
	}
	data := h.cb.vt.asAny(h.cb)
	bs, ok := data.([]byte)
	if !ok || len(bs) == 0 || bs[len(bs)-1] != 0 {
		return Str{}, ErrBadObjectCast
	}
	return Str{h: h.Clone(), ptr: &bs[0]}, nil
}

func (s Str) data() []byte {
	if s.ptr == nil {
		return nil
	}
	return arrayData[byte](s.h.cb)
}

// Size and Length both report the string's length excluding the
// terminating zero (§4.8).
func (s Str) Size() int   { d := s.data(); return max(len(d)-1, 0) }
func (s Str) Length() int { return s.Size() }
func (s Str) Empty() bool { return s.Size() == 0 }

// Data returns the raw pointer into the character array; nil for a null
// handle.
func (s Str) Data() *byte { return s.ptr }

// Handle returns the underlying Handle without adding a share; call
// Clone on it to obtain a second, independently closeable owner.
func (s Str) Handle() Handle { return s.h }

// CStr returns a pointer to a static zero character when the handle is
// null, and otherwise s.Data() — it is never nil.
func (s Str) CStr() *byte {
	if s.ptr == nil {
		return &emptyCString
	}
	return s.ptr
}

// String copies the content out as a Go string.
func (s Str) String() string {
	n := s.Size()
	if n == 0 {
		return ""
	}
	return string(s.data()[:n])
}

// View returns a borrowed View over the characters, excluding the
// terminator.
func (s Str) View() View[byte] {
	n := s.Size()
	if n == 0 {
		return View[byte]{}
	}
	return View[byte]{data: s.ptr, len: n}
}

// Equal and Less compare by pointer identity (§4.8 "relational and
// equality operators by pointer identity"), not by string content.
func (s Str) Equal(other Str) bool { return s.ptr == other.ptr }
func (s Str) Less(other Str) bool  { return uintptr(unsafe.Pointer(s.ptr)) < uintptr(unsafe.Pointer(other.ptr)) }

func (s *Str) Close() {
	s.h.Close()
	s.ptr = nil
}
