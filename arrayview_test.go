package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderRecorder struct {
	index   int
	order   *[]int
}

func (o *orderRecorder) Destroy() { *o.order = append(*o.order, o.index) }

// TestArrayDestructionOrder is scenario S3 from spec.md §8: destructors
// fire for indices n-1 .. 0, in that order.
func TestArrayDestructionOrder(t *testing.T) {
	var order []int
	arr := NewArrayFrom(
		orderRecorder{index: 0, order: &order},
		orderRecorder{index: 1, order: &order},
		orderRecorder{index: 2, order: &order},
	)
	assert.Equal(t, 3, arr.Len())

	_, err := arr.At(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	arr.Close()
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestArrayBoundsCheckedAccess(t *testing.T) {
	arr := NewArray[int](3)
	defer arr.Close()

	for i := 0; i < 3; i++ {
		p, err := arr.At(i)
		require.NoError(t, err)
		*p = i * i
	}
	assert.Equal(t, []int{0, 1, 4}, arr.Data())

	view := arr.View()
	assert.Equal(t, 3, view.Len())
	last, err := view.Last()
	require.NoError(t, err)
	assert.Equal(t, 4, *last)

	sub, err := view.Sub(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, sub.All())
}

func TestArrayEmplace(t *testing.T) {
	arr := NewArray[int](5)
	defer arr.Close()
	arr.Emplace(0)
	assert.Equal(t, 0, arr.Len())
}
