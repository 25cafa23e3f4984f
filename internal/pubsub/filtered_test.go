package pubsub

import (
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func isFailure(kind string) bool {
	return strings.HasSuffix(kind, "_failed")
}

func TestFilteredSender(t *testing.T) {
	assert := assert_.New(t)
	ch := NewChannel[string](10)
	filtered := NewFilteredSender[string](ch, isFailure)

	// Rejected records still count as sent
	for _, kind := range []string{"job_added", "add_failed", "job_finished", "resume_save_failed"} {
		assert.True(filtered.Send(kind))
	}
	assert.Equal("add_failed", <-ch.Receive())
	assert.Equal("resume_save_failed", <-ch.Receive())
	assertWaiting[string](t, ch)

	nofilter := NewFilteredSender[string](ch, nil)
	assert.True(nofilter.Send("job_added"))
	assert.Equal("job_added", <-ch.Receive())
}

func TestFilteredSender_Close(t *testing.T) {
	assert := assert_.New(t)

	// Closing either side closes both
	inner := NewChannel[string](1)
	outer := NewFilteredSender[string](inner, isFailure)
	outer.Close()
	<-inner.Closed()
	assert.False(outer.Send("add_failed"))

	inner = NewChannel[string](1)
	outer = NewFilteredSender[string](inner, isFailure)
	inner.Close()
	<-outer.Closed()
	assert.False(outer.Send("add_failed"))
	assert.False(outer.Send("job_added"), "a closed sender rejects even filtered records")
}

func TestFilteredSender_Publisher(t *testing.T) {
	assert := assert_.New(t)
	pub := NewPublisher[string]()
	ch := NewChannel[string](1)
	assert.NoError(pub.AddSubscriber(NewFilteredSender[string](ch, isFailure), true))

	done := make(chan []string)
	go func() {
		var received []string
		for v := range ch.Receive() {
			received = append(received, v)
		}
		done <- received
	}()
	for _, kind := range []string{"job_added", "add_failed", "job_paused", "move_failed", "job_resumed"} {
		pub.Send(kind)
	}
	pub.Close()
	assert.Equal([]string{"add_failed", "move_failed"}, <-done)
}

func TestLossySender(t *testing.T) {
	assert := assert_.New(t)
	ch := NewChannel[string](2)
	lossy := NewLossySender[string](ch)

	// Overflow is dropped without blocking or unsubscribing
	assert.True(lossy.Send("a"))
	assert.True(lossy.Send("b"))
	assert.True(lossy.Send("c"))
	assert.Equal("a", <-ch.Receive())
	assert.Equal("b", <-ch.Receive())
	assertWaiting[string](t, ch)

	lossy.Close()
	assert.False(lossy.Send("d"))
}
