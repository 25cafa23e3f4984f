package lpc

import (
	"context"
	"errors"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"
)

// peersQuery mirrors how the session waits for a job's peer list.
type peersQuery = *Command[string, []string]

func TestCommand_Uninitialized(t *testing.T) {
	assert := assert_.New(t)

	var zero Command[string, []string]
	assert.Panics(func() { zero.Close() })
	assert.Panics(func() { _ = zero.Respond(nil) })
	assert.Panics(func() { _ = zero.RespondError(errors.New("unknown job")) })
	assert.Panics(func() { _, _ = zero.Wait() })

	var nilPtr peersQuery
	assert.Panics(func() { nilPtr.Close() })
	assert.Panics(func() { <-nilPtr.Done() })

	// New is callable through a nil pointer of the alias
	c := peersQuery(nil).New("job")
	assert.Equal("job", c.Arg())
	c.Close()
}

func TestCommand_Close(t *testing.T) {
	assert := assert_.New(t)
	c := peersQuery(nil).New("job")
	c.Close()
	_, err := c.Wait()
	assert.ErrorIs(err, ErrNoResponse)
	assert.ErrorIs(c.Respond([]string{"late"}), ErrClosed)
}

func TestCommand_Respond(t *testing.T) {
	assert := assert_.New(t)

	a := peersQuery(nil).New("job")
	go func() { _ = a.Respond([]string{"10.0.0.1:6881"}) }()
	peers, err := a.Wait()
	assert.NoError(err)
	assert.Equal([]string{"10.0.0.1:6881"}, peers)
	assert.ErrorIs(a.Respond(nil), ErrClosed)

	errUnknown := errors.New("unknown job")
	b := peersQuery(nil).New("job")
	assert.NoError(b.RespondError(errUnknown))
	assert.ErrorIs(b.RespondError(errUnknown), ErrClosed)
	_, err = b.Wait()
	assert.ErrorIs(err, errUnknown)
}

func TestCommand_WaitContext(t *testing.T) {
	assert := assert_.New(t)

	c := peersQuery(nil).New("job")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.WaitContext(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)

	// Giving up does not consume the response
	assert.NoError(c.Respond([]string{"10.0.0.2:6881"}))
	select {
	case <-c.Done():
	default:
		assert.Fail("Done() should be closed after Respond()")
	}
	peers, err := c.WaitContext(context.Background())
	assert.NoError(err)
	assert.Len(peers, 1)
}

func BenchmarkCommand_RoundTrip(b *testing.B) {
	commands := make(chan peersQuery, 1)
	go func() {
		for c := range commands {
			_ = c.Respond([]string{c.Arg()})
		}
	}()
	for i := 0; i < b.N; i++ {
		c := peersQuery(nil).New("job")
		commands <- c
		_, _ = c.Wait()
	}
	close(commands)
}
