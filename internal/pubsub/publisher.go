package pubsub

import (
	"errors"
	"sync"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

const (
	DefaultPublisherBufSize  = 1
	DefaultSubscriberBufSize = 1
)

var (
	ErrPublisherClosed = errors.New("publisher closed")
)

type Publisher[T any] interface {
	SenderCloser[T]
	// AddSubscriber adds an existing sender as a subscriber. If closeWithPublisher is true, it is closed when the
	// publisher closes.
	AddSubscriber(s SenderCloser[T], closeWithPublisher bool) error
	Subscribe() (ReceiverCloser[T], error)
	SubscribeBufSize(int) (ReceiverCloser[T], error)
}

type subscriber[T any] struct {
	SenderCloser[T]
	closeWithPublisher bool
}

type publisher[T any] struct {
	mu          sync.Mutex
	ch          Channel[T]
	running     sync.WaitGroup // Goroutines in progress
	pending     sync.WaitGroup // Messages not yet sent to all subscribers
	subscribers *sync_.Mutexed[generic.Set[*subscriber[T]]]
	closed      bool
}

func NewPublisher[T any]() Publisher[T] {
	return NewPublisherBufSize[T](DefaultPublisherBufSize)
}

func NewPublisherBufSize[T any](bufSize int) Publisher[T] {
	p := &publisher[T]{
		ch:          NewChannel[T](bufSize),
		subscribers: sync_.NewMutexed(generic.NewSet[*subscriber[T]]()),
	}
	p.running.Add(1)
	go func() {
		defer p.running.Done()
		for v := range p.ch.Receive() {
			// Copy the subscriber list, so new subscribers can be added while sending
			var subscriberSlice []*subscriber[T]
			_ = p.subscribers.Locked(func(subscribers *generic.Set[*subscriber[T]]) error {
				subscriberSlice = (*subscribers).ToSlice()
				return nil
			})
			for _, s := range subscriberSlice {
				if ok := s.Send(v); !ok {
					p.unsubscribe(s)
				}
			}
			p.pending.Done()
		}
	}()
	return p
}

// Send will publish the value to all subscribers. It only blocks while the publisher's own buffer is full.
func (p *publisher[T]) Send(msg T) bool {
	p.pending.Add(1)
	if ok := p.ch.Send(msg); !ok {
		// Message was not sent, so don't wait for it
		p.pending.Done()
		return false
	}
	return true
}

func (p *publisher[T]) Subscribe() (ReceiverCloser[T], error) {
	return p.SubscribeBufSize(DefaultSubscriberBufSize)
}

func (p *publisher[T]) SubscribeBufSize(bufSize int) (ReceiverCloser[T], error) {
	s := NewChannel[T](bufSize)
	if err := p.AddSubscriber(s, true); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *publisher[T]) AddSubscriber(s SenderCloser[T], closeWithPublisher bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	return p.subscribers.Locked(func(subscribers *generic.Set[*subscriber[T]]) error {
		(*subscribers).Add(&subscriber[T]{s, closeWithPublisher})
		return nil
	})
}

func (p *publisher[T]) unsubscribe(s *subscriber[T]) {
	_ = p.subscribers.Locked(func(subscribers *generic.Set[*subscriber[T]]) error {
		(*subscribers).Remove(s)
		return nil
	})
}

// Close idempotently shuts down the publisher, closing subscribers too unless they asked otherwise.
func (p *publisher[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// Close the send channel, and wait for the channel to be flushed
	p.ch.Close()
	p.pending.Wait()
	p.running.Wait()
	var subscriberSlice []*subscriber[T]
	_ = p.subscribers.Locked(func(subscribers *generic.Set[*subscriber[T]]) error {
		subscriberSlice = (*subscribers).ToSlice()
		(*subscribers).Clear()
		return nil
	})
	for _, s := range subscriberSlice {
		if s.closeWithPublisher {
			s.Close()
		}
	}
	p.closed = true
}

func (p *publisher[T]) Closed() <-chan struct{} {
	return p.ch.Closed()
}
