package sync_

import (
	"sync"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"
)

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestEvent(t *testing.T) {
	assert := assert_.New(t)
	var e Event
	assert.False(e.IsSet())
	wait := e.Wait()
	assert.False(isClosed(wait))

	assert.True(e.Set())
	assert.True(e.IsSet())
	assert.True(isClosed(wait), "existing waiters are woken")
	assert.True(isClosed(e.Wait()), "later waiters return immediately")

	assert.False(e.Set(), "only the first Set counts")
	assert.False(e.SetWith(func() { assert.Fail("f runs only on the first set") }))
}

func TestEvent_SetWith(t *testing.T) {
	assert := assert_.New(t)
	e := NewEvent()
	var value string
	var wg sync.WaitGroup
	seen := make([]string, 10)
	for i := range seen {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-e.Wait()
			seen[i] = value
		}(i)
	}
	time.Sleep(10 * time.Millisecond)
	assert.True(e.SetWith(func() { value = "response" }))
	wg.Wait()
	for _, v := range seen {
		assert.Equal("response", v)
	}
}
