package pubsub

// NewFilteredSender wraps s so that only messages accepted by f are passed on. Rejected messages are dropped but
// still reported as sent.
func NewFilteredSender[T any](s SenderCloser[T], f func(T) bool) SenderCloser[T] {
	return &filteredSender[T]{
		SenderCloser: s,
		filter:       f,
	}
}

type filteredSender[T any] struct {
	SenderCloser[T]
	filter func(T) bool
}

func (s *filteredSender[T]) Send(msg T) bool {
	select {
	case <-s.Closed():
		return false
	default:
		if s.filter == nil || s.filter(msg) {
			return s.SenderCloser.Send(msg)
		}
		// "true" because channel is not closed, it "accepted" the message, it just dropped it
		return true
	}
}

// NewLossySender wraps c so that a full buffer drops the message instead of blocking the publisher.
func NewLossySender[T any](c Channel[T]) SenderCloser[T] {
	return &lossySender[T]{c}
}

type lossySender[T any] struct {
	Channel[T]
}

func (s *lossySender[T]) Send(msg T) bool {
	select {
	case <-s.Closed():
		return false
	default:
		// A dropped message still leaves the subscriber subscribed
		s.TrySend(msg)
		return true
	}
}
