package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type destroyCounter struct {
	destroyed *int
}

func (d *destroyCounter) Destroy() { *d.destroyed++ }

// TestRefcount is scenario S1 from spec.md §8.
func TestRefcount(t *testing.T) {
	var destroyed int
	a := New(destroyCounter{destroyed: &destroyed})
	b := a.Clone()
	c := a.Clone()

	assert.EqualValues(t, 3, a.StrongCount())
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))

	b.Close()
	assert.Equal(t, 0, destroyed)
	c.Close()
	assert.Equal(t, 0, destroyed)
	a.Close()
	assert.Equal(t, 1, destroyed)
}

func TestHandleNilIsSafeToClose(t *testing.T) {
	var h Handle
	assert.True(t, h.Nil())
	h.Close()
	h.Close()
}

func TestHandleSelfAssignSafe(t *testing.T) {
	a := New(7)
	defer a.Close()
	b := a.Clone()
	defer b.Close()

	// Self-exchange must not corrupt state (§9 "self-assignment safety").
	old := b.Exchange(b.Clone())
	old.Close()
	assert.True(t, a.Equal(b))
}

func TestHandleTakeIsMove(t *testing.T) {
	a := New(9)
	moved := a.Take()
	assert.True(t, a.Nil())
	assert.False(t, moved.Nil())
	moved.Close()
}

func TestReleaseFromRawRoundTrip(t *testing.T) {
	a := New(123)
	raw := a.Release()
	assert.True(t, a.Nil())

	b := FromRaw(raw)
	assert.EqualValues(t, 1, b.StrongCount())
	assert.Equal(t, 123, *Unchecked[int](b))
	b.Close()
}
