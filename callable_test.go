package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCallableWrappers is scenario S5 from spec.md §8.
func TestCallableWrappers(t *testing.T) {
	seed := 100
	f := NewFn(func(x int) int {
		v := x + seed
		seed++
		return v
	})
	defer f.Close()

	v, err := f.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 101, v)

	v, err = f.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 102, v)

	g, err := FnRefFrom(f)
	require.NoError(t, err)
	defer g.Close()

	v, err = g.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 103, v)

	v, err = g.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 104, v)
}

func TestEmptyCallableFails(t *testing.T) {
	var f Fn[int, int]
	_, err := f.Call(1)
	assert.ErrorIs(t, err, ErrObjectNotFn)
}

func TestFnFromHandleTypeMismatch(t *testing.T) {
	h := New(42)
	defer h.Close()
	_, err := FnFromHandle[int, int](h)
	assert.ErrorIs(t, err, ErrObjectNotFn)
}

func TestFnRefBorrowDoesNotOwn(t *testing.T) {
	ref := FnRefBorrow(func(x int) int { return x * 2 })
	v, err := ref.Call(21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	_, owning := ref.Owning()
	assert.False(t, owning)
}
