package state

import (
	"sync"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

const (
	idA = engine.Identity("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	idB = engine.Identity("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func TestCache(t *testing.T) {
	assert := assert_.New(t)
	c := NewCache("peers", clonePeers)

	// Absence is a normal result
	assert.True(c.Get(idA).IsNone())
	c.Remove(idA)
	assert.Equal(0, c.Len())

	c.Update(idA, []engine.PeerInfo{{Addr: "1.2.3.4:5", Pieces: []bool{true}}})
	c.Update(idB, nil)
	assert.Equal(2, c.Len())
	assert.Equal([]engine.Identity{idA, idB}, c.Identities())

	peers := c.Get(idA).Unwrap()
	assert.Len(peers, 1)
	// Readers get a copy
	peers[0].Pieces[0] = false
	peers[0].Addr = "changed"
	again := c.Get(idA).Unwrap()
	assert.Equal("1.2.3.4:5", again[0].Addr)
	assert.True(again[0].Pieces[0])

	// Updates replace wholesale
	c.Update(idA, []engine.PeerInfo{{Addr: "5.6.7.8:9"}, {Addr: "9.9.9.9:9"}})
	assert.Len(c.Get(idA).Unwrap(), 2)

	c.Remove(idA)
	assert.True(c.Get(idA).IsNone())
	assert.False(c.Has(idA))
	assert.True(c.Has(idB))
	assert.Len(c.All(), 1)

	c.Clear()
	assert.Equal(0, c.Len())
}

func TestCache_LastWriteWins(t *testing.T) {
	assert := assert_.New(t)
	c := NewCache[engine.JobStatus]("jobs", nil)

	for _, n := range []int64{1, 2, 3} {
		c.Update(idA, engine.JobStatus{ID: idA, TotalDone: n})
	}
	assert.Equal(int64(3), c.Get(idA).Unwrap().TotalDone)
}

func TestCaches_RemoveJob(t *testing.T) {
	assert := assert_.New(t)
	c := NewCaches(nil)

	c.Jobs.Update(idA, engine.JobStatus{ID: idA})
	c.Peers.Update(idA, nil)
	c.FileProgress.Update(idA, []int64{1})
	c.PieceInfo.Update(idA, engine.PieceInfo{})
	c.PieceAvailability.Update(idA, []int{1})
	c.Trackers.Update(idA, []engine.AnnounceEntry{{URL: "udp://x"}})
	c.Jobs.Update(idB, engine.JobStatus{ID: idB})

	c.RemoveJob(idA)
	for _, has := range []bool{
		c.Jobs.Has(idA), c.Peers.Has(idA), c.FileProgress.Has(idA),
		c.PieceInfo.Has(idA), c.PieceAvailability.Has(idA), c.Trackers.Has(idA),
	} {
		assert.False(has)
	}
	assert.True(c.Jobs.Has(idB))

	// Removing again is a no-op
	c.RemoveJob(idA)
	assert.True(c.Jobs.Has(idB))

	c.DHT.Update(engine.DHTStats{NodeID: "n"})
	c.Clear()
	assert.Equal(0, c.Jobs.Len())
	assert.True(c.DHT.Get().IsNone())
}

func TestSessionStats_TwoGenerations(t *testing.T) {
	assert := assert_.New(t)
	metrics := []engine.StatsMetric{
		{Name: "net.sent_bytes", Index: 0, Type: engine.MetricCounter},
		{Name: "net.recv_bytes", Index: 1, Type: engine.MetricCounter},
		{Name: "peer.num_peers_connected", Index: 2, Type: engine.MetricGauge},
	}
	s := NewSessionStats(metrics)

	// Defined for every metric before any update
	for i := range metrics {
		assert.Equal(int64(0), s.Value(i))
		assert.Equal(int64(0), s.PrevValue(i))
	}
	_, ok := s.Snapshot().Rate(0)
	assert.False(ok)

	t0 := time.Unix(1000, 0)
	s.Update(t0, []int64{10, 20, 3})
	for i, v := range []int64{10, 20, 3} {
		assert.Equal(v, s.Value(i))
		// First update fills both generations
		assert.Equal(v, s.PrevValue(i))
	}
	_, ok = s.Snapshot().Rate(0)
	assert.False(ok, "rate is undefined after one update")

	s.Update(t0.Add(2*time.Second), []int64{30, 20, 5})
	for i, v := range []int64{10, 20, 3} {
		assert.Equal(v, s.PrevValue(i))
	}
	assert.Equal(int64(30), s.Value(0))
	rate, ok := s.Snapshot().Rate(0)
	assert.True(ok)
	assert.InDelta(10.0, rate, 1e-9)

	s.Update(t0.Add(3*time.Second), []int64{31, 21, 6})
	assert.Equal(int64(30), s.PrevValue(0))
	assert.Equal(int64(31), s.Value(0))

	// Out of range reads are zero, short vectors are padded
	assert.Equal(int64(0), s.Value(99))
	s.Update(t0.Add(4*time.Second), []int64{1})
	assert.Equal(int64(0), s.Value(2))
	assert.Equal(int64(6), s.PrevValue(2))

	i, ok := s.MetricIndex("net.recv_bytes")
	assert.True(ok)
	assert.Equal(1, i)
	assert.Len(s.Metrics(), 3)
}

func TestSessionStats_ConcurrentReaders(t *testing.T) {
	assert := assert_.New(t)
	s := NewSessionStats([]engine.StatsMetric{{Name: "a", Index: 0}, {Name: "b", Index: 1}})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := int64(1); n <= 200; n++ {
			s.Update(time.Unix(n, 0), []int64{n, n})
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := s.Snapshot()
				// Both counters are always from the same generation
				assert.Equal(snap.Value(0), snap.Value(1))
			}
		}()
	}
	wg.Wait()
	assert.Equal(int64(200), s.Value(0))
}

func TestDHTStatsCache(t *testing.T) {
	assert := assert_.New(t)
	c := NewDHTStatsCache()
	assert.True(c.Get().IsNone())

	c.Update(engine.DHTStats{NodeID: "one", RoutingTable: []engine.DHTRoutingBucket{{NumNodes: 8}}})
	c.Update(engine.DHTStats{NodeID: "two"})
	stats := c.Get().Unwrap()
	assert.Equal("two", stats.NodeID)
	assert.Empty(stats.RoutingTable)
}
