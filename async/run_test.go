package async

import (
	"errors"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal("done", <-Run(func() string { return "done" }))

	// Nobody receives, but the goroutine still finishes
	finished := make(chan struct{})
	_ = Run(func() int {
		defer close(finished)
		return 1
	})
	select {
	case <-finished:
	case <-time.After(time.Second):
		assert.Fail("Run blocked on an abandoned result")
	}
}

func TestRunResult(t *testing.T) {
	assert := assert_.New(t)
	ok := <-RunResult(func() (int, error) { return 123, nil })
	assert.True(ok.IsOk())
	assert.Equal(123, ok.Value)

	errClosed := errors.New("closed")
	bad := <-RunResult(func() (int, error) { return 0, errClosed })
	assert.True(bad.IsErr())
	assert.ErrorIs(bad.Error, errClosed)
}
