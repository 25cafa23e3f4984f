// Package lpc stands for "Local Procedure Call". It's a typed RPC-like mechanism implemented over Go channels, intended
// for handing a one-shot response from a long-running goroutine back to a waiting caller.
package lpc

import (
	"context"
	"errors"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

var (
	ErrClosed     = errors.New("command response already sent")
	ErrNoResponse = errors.New("no response")
)

type Command[Arg any, Response any] struct {
	initialized bool
	arg         Arg
	response    generic.Result[Response]
	done        sync_.Event
}

func (*Command[Arg, Response]) New(arg Arg) *Command[Arg, Response] {
	return &Command[Arg, Response]{
		initialized: true,
		arg:         arg,
		response:    generic.Err[Response](ErrNoResponse), // Default error if closed with no response
	}
}

func (c *Command[Arg, Response]) Arg() Arg {
	return c.arg
}

func (c *Command[Arg, Response]) Respond(response Response) error {
	return c.respond("Respond", generic.Ok(response))
}

func (c *Command[Arg, Response]) RespondError(err error) error {
	return c.respond("RespondError", generic.Err[Response](err))
}

func (c *Command[Arg, Response]) respond(method string, result generic.Result[Response]) error {
	c.checkInitialized(method)
	if !c.done.SetWith(func() { c.response = result }) {
		return ErrClosed
	}
	return nil
}

// Wait blocks until a response is sent or the command is closed.
func (c *Command[Arg, Response]) Wait() (Response, error) {
	c.checkInitialized("Wait")
	<-c.done.Wait()
	return c.result()
}

// WaitContext is like Wait, but gives up with the context's error when ctx is done first.
func (c *Command[Arg, Response]) WaitContext(ctx context.Context) (Response, error) {
	c.checkInitialized("WaitContext")
	select {
	case <-c.done.Wait():
		return c.result()
	case <-ctx.Done():
		var zero Response
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once a response is available.
func (c *Command[Arg, Response]) Done() <-chan struct{} {
	c.checkInitialized("Done")
	return c.done.Wait()
}

func (c *Command[Arg, Response]) Close() {
	c.checkInitialized("Close")
	c.done.Set()
}

// result must only be called once done is set.
func (c *Command[Arg, Response]) result() (Response, error) {
	return c.response.Parts()
}

func (c *Command[Arg, Response]) checkInitialized(method string) {
	if c == nil || !c.initialized {
		panic("attempted to call ." + method + "() on uninitialized Command, must use .New() first")
	}
}
