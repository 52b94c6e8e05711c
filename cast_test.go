package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExactCast is testable property 3 of spec.md §8.
func TestExactCast(t *testing.T) {
	h := New(42)
	defer h.Close()

	assert.Equal(t, 42, *Exact[int](h))
	assert.Nil(t, Exact[string](h))

	_, err := MustExact[string](h)
	assert.ErrorIs(t, err, ErrBadObjectCast)
}

type shape interface{ Area() float64 }

type square struct{ side float64 }

func (s *square) Area() float64 { return s.side * s.side }

// TestPolymorphicCast is testable property 4 of spec.md §8 (S4).
func TestPolymorphicCast(t *testing.T) {
	h := New(square{side: 3})
	defer h.Close()

	_, ok := Polymorphic[int](h)
	assert.False(t, ok)

	s, ok := Polymorphic[shape](h)
	assert.True(t, ok)
	assert.Equal(t, 9.0, s.Area())

	assert.Nil(t, Exact[shape](h))
}

func TestUncheckedCast(t *testing.T) {
	h := New("hello")
	defer h.Close()
	assert.Equal(t, "hello", *Unchecked[string](h))
}

func TestCastOnNilHandle(t *testing.T) {
	var h Handle
	assert.Nil(t, Exact[int](h))
	_, ok := Polymorphic[shape](h)
	assert.False(t, ok)
}
