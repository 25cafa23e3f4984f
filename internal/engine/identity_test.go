package engine

import (
	"errors"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

const (
	testV1 = "0123456789abcdef0123456789abcdef01234567"
	testV2 = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

func TestParseIdentity(t *testing.T) {
	assert := assert_.New(t)

	id, err := ParseIdentity(testV1)
	assert.NoError(err)
	assert.Equal(Identity(testV1), id)
	assert.False(id.IsV2())
	assert.Len(id.Bytes(), 20)

	// Upper case and surrounding whitespace are normalised away
	id, err = ParseIdentity("  " + strings.ToUpper(testV2) + "\n")
	assert.NoError(err)
	assert.Equal(Identity(testV2), id)
	assert.True(id.IsV2())
	assert.Len(id.Bytes(), 32)

	for _, bad := range []string{"", "abc", testV1[:39], testV1 + "0", strings.Replace(testV1, "0", "g", 1)} {
		_, err := ParseIdentity(bad)
		assert.Truef(errors.Is(err, ErrInvalidIdentity), "expected ErrInvalidIdentity for %q, got %v", bad, err)
	}

	assert.Panics(func() { MustParseIdentity("nope") })
}

func TestIdentityFromBytes(t *testing.T) {
	assert := assert_.New(t)

	id := MustParseIdentity(testV1)
	roundTrip, err := IdentityFromBytes(id.Bytes())
	assert.NoError(err)
	assert.Equal(id, roundTrip)

	_, err = IdentityFromBytes([]byte{1, 2, 3})
	assert.ErrorIs(err, ErrInvalidIdentity)
}

func TestInfoHashes_Best(t *testing.T) {
	assert := assert_.New(t)

	var h InfoHashes
	assert.True(h.IsZero())
	assert.Equal(Identity(""), h.Best())
	assert.False(h.Has(""))

	h.V1 = testV1
	assert.False(h.IsZero())
	assert.Equal(Identity(testV1), h.Best())

	// Hybrid jobs prefer the v2 hash, but match either
	h.V2 = testV2
	assert.Equal(Identity(testV2), h.Best())
	assert.True(h.Has(testV1))
	assert.True(h.Has(testV2))
	assert.False(h.Has(Identity(strings.Repeat("f", 40))))
}
