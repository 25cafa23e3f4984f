package sync_

import "sync"

// Event is a one-shot flag that goroutines can wait on. It starts unset, and once set stays set. The zero value is
// ready to use.
type Event struct {
	mu    sync.Mutex
	ch    chan struct{}
	value bool
}

func NewEvent() *Event {
	return &Event{}
}

func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Set reports whether this call was the one that set the Event.
func (e *Event) Set() bool {
	return e.SetWith(nil)
}

// SetWith is like Set, but the first time runs f under the lock before waking waiters, so they observe whatever f
// wrote.
func (e *Event) SetWith(f func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.value {
		return false
	}
	if f != nil {
		f()
	}
	e.value = true
	close(e.channel())
	return true
}

// Wait returns a channel that is closed once the Event is set.
func (e *Event) Wait() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channel()
}

// channel must be called with mu held.
func (e *Event) channel() chan struct{} {
	if e.ch == nil {
		e.ch = make(chan struct{})
	}
	return e.ch
}
