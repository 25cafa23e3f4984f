package generic

import (
	"errors"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	assert := assert_.New(t)

	some := Some("peer")
	assert.True(some.IsSome())
	v, ok := some.Get()
	assert.True(ok)
	assert.Equal("peer", v)
	assert.Equal("peer", some.Unwrap())

	// A present zero value is still present
	zero := Some(0)
	assert.True(zero.IsSome())

	none := None[int]()
	assert.True(none.IsNone())
	_, ok = none.Get()
	assert.False(ok)
	assert.Panics(func() { none.Unwrap() })
}

func TestResult(t *testing.T) {
	assert := assert_.New(t)

	ok := NewResult(5, nil)
	assert.True(ok.IsOk())
	v, err := ok.Parts()
	assert.Equal(5, v)
	assert.NoError(err)

	bad := Err[int](errors.New("bad"))
	assert.True(bad.IsErr())
	_, err = bad.Parts()
	assert.EqualError(err, "bad")
	assert.Equal(Ok("x"), NewResult("x", nil))
}
