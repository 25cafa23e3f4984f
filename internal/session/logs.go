package session

import (
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

type ring struct {
	entries []LogEntry
	// next is the slot the next entry goes in; once full it is also the oldest entry.
	next int
	full bool
}

// logRing keeps the most recent lifecycle records, evicting the oldest first.
type logRing struct {
	r *sync_.Mutexed[ring]
}

func newLogRing(capacity int) *logRing {
	if capacity < 1 {
		capacity = 1
	}
	return &logRing{r: sync_.NewMutexed(ring{entries: make([]LogEntry, capacity)})}
}

func (l *logRing) push(e LogEntry) {
	_ = l.r.Locked(func(r *ring) error {
		r.entries[r.next] = e
		r.next = (r.next + 1) % len(r.entries)
		if r.next == 0 {
			r.full = true
		}
		return nil
	})
}

// list returns the entries oldest first.
func (l *logRing) list() []LogEntry {
	var out []LogEntry
	_ = l.r.Locked(func(r *ring) error {
		if !r.full {
			out = append(out, r.entries[:r.next]...)
			return nil
		}
		out = make([]LogEntry, 0, len(r.entries))
		out = append(out, r.entries[r.next:]...)
		out = append(out, r.entries[:r.next]...)
		return nil
	})
	return out
}

func (l *logRing) capacity() int {
	var n int
	_ = l.r.Locked(func(r *ring) error {
		n = len(r.entries)
		return nil
	})
	return n
}
