package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStringTerminator is testable property 10 of spec.md §8.
func TestStringTerminator(t *testing.T) {
	s := NewStr("hello")
	defer s.Close()

	assert.Equal(t, 5, s.Size())
	assert.Equal(t, "hello", s.String())

	raw := s.data()
	assert.Equal(t, byte(0), raw[s.Size()])
}

func TestStringEmpty(t *testing.T) {
	s := NewStr("")
	defer s.Close()
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.String())
}

func TestStringNullCStr(t *testing.T) {
	var s Str
	assert.NotNil(t, s.CStr())
	assert.Equal(t, byte(0), *s.CStr())
}

func TestStringRepeat(t *testing.T) {
	s := NewStrRepeat(4, 'x')
	defer s.Close()
	assert.Equal(t, "xxxx", s.String())
}

func TestStringEqualityByIdentity(t *testing.T) {
	a := NewStr("same")
	defer a.Close()
	b := NewStr("same")
	defer b.Close()
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}
