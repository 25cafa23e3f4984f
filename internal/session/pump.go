package session

import (
	"time"
)

func (s *Session) runPump(interval time.Duration) {
	defer close(s.pumpDone)
	s.log.Debugf("pump started, interval %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			s.log.Debugf("pump stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick asks the engine for fresh session-wide snapshots, then applies everything queued so far. Snapshots requested
// here usually arrive by the next tick.
func (s *Session) tick() {
	s.engine.PostSessionStats()
	s.engine.PostJobUpdates()
	s.engine.PostDHTStats()
	s.drain()
}

// drain takes every queued event from the engine and dispatches it, in order.
func (s *Session) drain() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	if s.closed.IsSet() {
		return
	}
	for _, ev := range s.engine.DrainEvents() {
		s.dispatch(ev)
	}
}
