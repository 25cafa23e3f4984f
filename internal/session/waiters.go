package session

import (
	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/lpc"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

// waitKey identifies the snapshot a waiter wants: an event kind, and the job it is for (empty for session-wide kinds).
type waitKey struct {
	kind engine.EventKind
	id   engine.Identity
}

type waiter = lpc.Command[waitKey, generic.Void]

type waiterTable struct {
	pending map[waitKey][]*waiter
	closed  bool
}

// waiters lets a caller block until the dispatcher applies a particular kind of snapshot.
type waiters struct {
	t *sync_.Mutexed[waiterTable]
}

func newWaiters() *waiters {
	return &waiters{t: sync_.NewMutexed(waiterTable{pending: make(map[waitKey][]*waiter)})}
}

// add registers a waiter for key. It must later be passed to remove.
func (w *waiters) add(key waitKey) (*waiter, error) {
	c := (*waiter).New(nil, key)
	err := w.t.Locked(func(t *waiterTable) error {
		if t.closed {
			return ErrSessionClosed
		}
		t.pending[key] = append(t.pending[key], c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (w *waiters) remove(c *waiter) {
	_ = w.t.Locked(func(t *waiterTable) error {
		key := c.Arg()
		list := t.pending[key]
		for i, other := range list {
			if other == c {
				list = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(t.pending, key)
		} else {
			t.pending[key] = list
		}
		return nil
	})
}

// resolve wakes every waiter for key.
func (w *waiters) resolve(key waitKey) {
	var list []*waiter
	_ = w.t.Locked(func(t *waiterTable) error {
		list = t.pending[key]
		delete(t.pending, key)
		return nil
	})
	for _, c := range list {
		_ = c.Respond(generic.Void{})
	}
}

// failJob fails every waiter for id with err.
func (w *waiters) failJob(id engine.Identity, err error) {
	var list []*waiter
	_ = w.t.Locked(func(t *waiterTable) error {
		for key, pending := range t.pending {
			if key.id == id {
				list = append(list, pending...)
				delete(t.pending, key)
			}
		}
		return nil
	})
	for _, c := range list {
		_ = c.RespondError(err)
	}
}

// close fails every pending waiter with err, and refuses new ones.
func (w *waiters) close(err error) {
	var list []*waiter
	_ = w.t.Locked(func(t *waiterTable) error {
		for _, pending := range t.pending {
			list = append(list, pending...)
		}
		t.pending = make(map[waitKey][]*waiter)
		t.closed = true
		return nil
	})
	for _, c := range list {
		_ = c.RespondError(err)
	}
}

func (w *waiters) len() int {
	n := 0
	_ = w.t.Locked(func(t *waiterTable) error {
		for _, pending := range t.pending {
			n += len(pending)
		}
		return nil
	})
	return n
}
