package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasOf(t *testing.T) {
	h := New(widget{id: 7})
	a, err := AliasOf[widget](h)
	require.NoError(t, err)
	defer a.Close()
	h.Close()

	assert.Equal(t, 7, a.Get().id)
}

func TestAliasOfTypeMismatch(t *testing.T) {
	h := New(42)
	defer h.Close()
	_, err := AliasOf[widget](h)
	assert.ErrorIs(t, err, ErrBadObjectCast)
}

func TestAliasWithExplicitPointer(t *testing.T) {
	h := New(widget{id: 9})
	defer h.Close()
	ptr := Unchecked[widget](h)

	a := AliasWith(h, ptr)
	defer a.Close()
	assert.Same(t, ptr, a.Get())
}

func TestRefRejectsNil(t *testing.T) {
	h := New(42)
	defer h.Close()
	_, err := RefWith[widget](h, nil)
	assert.ErrorIs(t, err, ErrBadObjectCast)
}

func TestFromRawPayload(t *testing.T) {
	h := New(widget{id: 11})
	ptr := Unchecked[widget](h)

	reclaimed := FromRawPayload(ptr)
	assert.EqualValues(t, 2, reclaimed.StrongCount())

	h.Close()
	reclaimed.Close()
}
