package state

import (
	"slices"
	"time"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

type generations struct {
	// counters[0] is the latest generation, counters[1] the one before.
	counters [2][]int64
	times    [2]time.Time
	updates  int
}

// SessionStats keeps the two most recent generations of the session counter vector, so rates can be derived.
type SessionStats struct {
	metrics []engine.StatsMetric
	byName  map[string]int
	gen     *sync_.RWMutexed[generations]
}

// NewSessionStats creates a snapshot for the given metric table. Until the first update every value is zero.
func NewSessionStats(metrics []engine.StatsMetric) *SessionStats {
	byName := make(map[string]int, len(metrics))
	size := 0
	for _, m := range metrics {
		byName[m.Name] = m.Index
		if m.Index+1 > size {
			size = m.Index + 1
		}
	}
	var g generations
	g.counters[0] = make([]int64, size)
	g.counters[1] = make([]int64, size)
	return &SessionStats{
		metrics: slices.Clone(metrics),
		byName:  byName,
		gen:     sync_.NewRWMutexed(g),
	}
}

// Update records a new generation, discarding the oldest. The first update fills both generations.
func (s *SessionStats) Update(t time.Time, counters []int64) {
	_ = s.gen.Locked(func(g *generations) error {
		fresh := slices.Clone(counters)
		if n := len(g.counters[0]); len(fresh) < n {
			fresh = append(fresh, make([]int64, n-len(fresh))...)
		}
		if g.updates == 0 {
			g.counters[1] = slices.Clone(fresh)
			g.times[1] = t
		} else {
			g.counters[1] = g.counters[0]
			g.times[1] = g.times[0]
		}
		g.counters[0] = fresh
		g.times[0] = t
		g.updates++
		return nil
	})
}

func (s *SessionStats) Metrics() []engine.StatsMetric {
	return slices.Clone(s.metrics)
}

// MetricIndex finds the counter index for a metric name.
func (s *SessionStats) MetricIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Value is the latest value of counter i, or 0 if i is out of range.
func (s *SessionStats) Value(i int) int64 {
	return s.Snapshot().Value(i)
}

// PrevValue is the previous value of counter i, or 0 if i is out of range.
func (s *SessionStats) PrevValue(i int) int64 {
	return s.Snapshot().PrevValue(i)
}

// Snapshot returns both generations as one consistent copy.
func (s *SessionStats) Snapshot() StatsSnapshot {
	var snap StatsSnapshot
	_ = s.gen.RLocked(func(g *generations) error {
		snap = StatsSnapshot{
			Values:     slices.Clone(g.counters[0]),
			PrevValues: slices.Clone(g.counters[1]),
			Time:       g.times[0],
			PrevTime:   g.times[1],
			Updates:    g.updates,
		}
		return nil
	})
	return snap
}

// StatsSnapshot is a copy of both generations of session counters.
type StatsSnapshot struct {
	Values     []int64
	PrevValues []int64
	Time       time.Time
	PrevTime   time.Time
	// Updates counts how many counter vectors have been received.
	Updates int
}

func (s StatsSnapshot) Value(i int) int64 {
	if i < 0 || i >= len(s.Values) {
		return 0
	}
	return s.Values[i]
}

func (s StatsSnapshot) PrevValue(i int) int64 {
	if i < 0 || i >= len(s.PrevValues) {
		return 0
	}
	return s.PrevValues[i]
}

func (s StatsSnapshot) Elapsed() time.Duration {
	return s.Time.Sub(s.PrevTime)
}

// Rate is the per-second change of counter i between the two generations. It is not defined, and ok is false, until
// two updates with different timestamps have been seen.
func (s StatsSnapshot) Rate(i int) (rate float64, ok bool) {
	elapsed := s.Elapsed()
	if s.Updates < 2 || elapsed <= 0 {
		return 0, false
	}
	return float64(s.Value(i)-s.PrevValue(i)) / elapsed.Seconds(), true
}
