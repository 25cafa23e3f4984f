package generic

import (
	"sort"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	assert := assert_.New(t)

	s := NewSet("http", "https")
	assert.True(s.Contains("http", "https"))
	assert.False(s.Contains("http", "magnet"))
	assert.False(s.Add("http"))
	assert.True(s.Add("magnet"))

	items := s.ToSlice()
	sort.Strings(items)
	assert.Equal([]string{"http", "https", "magnet"}, items)

	assert.True(s.Remove("magnet"))
	assert.False(s.Remove("magnet"))
	assert.False(s.Contains("magnet"))

	s.Clear()
	assert.Empty(s.ToSlice())
	assert.True(s.Contains(), "vacuously contains nothing")
}

func TestAppendUnique(t *testing.T) {
	assert := assert_.New(t)

	assert.Equal([]string{"udp://a", "udp://b", "udp://c"}, AppendUnique([]string{"udp://a"}, "udp://b", "udp://a", "udp://c", "udp://b"))
	assert.Equal([]int{1}, AppendUnique(nil, 1, 1))
}
