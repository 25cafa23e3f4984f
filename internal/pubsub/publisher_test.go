package pubsub

import (
	"sync"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

var _ Publisher[string] = &publisher[string]{}

func assertWaiting[T any](t *testing.T, r Receiver[T]) {
	select {
	case v, ok := <-r.Receive():
		assert_.Fail(t, "subscriber should be waiting", "got %v (open=%v)", v, ok)
	default:
	}
}

func TestPublisher_Fanout(t *testing.T) {
	assert := assert_.New(t)
	pub := NewPublisher[string]().(*publisher[string])

	// Records sent before anyone subscribes are dropped
	assert.True(pub.Send("job_added"))
	pub.pending.Wait()

	first, err := pub.Subscribe()
	assert.NoError(err)
	assertWaiting[string](t, first)
	assert.True(pub.Send("metadata_received"))
	assert.Equal("metadata_received", <-first.Receive())
	pub.pending.Wait()

	second, err := pub.Subscribe()
	assert.NoError(err)
	var wg sync.WaitGroup
	got := make([]string, 2)
	for i, s := range []ReceiverCloser[string]{first, second} {
		wg.Add(1)
		go func(i int, s ReceiverCloser[string]) {
			defer wg.Done()
			got[i] = <-s.Receive()
		}(i, s)
	}
	assert.True(pub.Send("job_finished"))
	wg.Wait()
	assert.Equal([]string{"job_finished", "job_finished"}, got)
	pub.pending.Wait()

	// An unsubscribed receiver is closed and no longer delivered to
	first.Close()
	first.Close()
	assert.True(pub.Send("job_removed"))
	assert.Equal("job_removed", <-second.Receive())
	_, ok := <-first.Receive()
	assert.False(ok)
	pub.pending.Wait()

	pub.Close()
	pub.Close()
	_, err = pub.Subscribe()
	assert.ErrorIs(err, ErrPublisherClosed)
	assert.False(pub.Send("late"))
	_, ok = <-second.Receive()
	assert.False(ok, "subscribers close with the publisher")
}

func TestPublisher_AddSubscriber_Close(t *testing.T) {
	assert := assert_.New(t)

	pub := NewPublisher[string]()
	owned := NewChannel[string](1)
	borrowed := NewChannel[string](1)
	assert.NoError(pub.AddSubscriber(owned, true))
	assert.NoError(pub.AddSubscriber(borrowed, false))
	pub.Close()
	assert.False(owned.Send("x"), "closed along with the publisher")
	assert.True(borrowed.Send("x"), "left open for its owner")
	assert.ErrorIs(pub.AddSubscriber(NewChannel[string](1), true), ErrPublisherClosed)
}
