package state

import (
	"slices"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// Caches is the full set of engine state mirrors owned by a session.
type Caches struct {
	Stats             *SessionStats
	Jobs              *Cache[engine.JobStatus]
	DHT               *DHTStatsCache
	Peers             *Cache[[]engine.PeerInfo]
	FileProgress      *Cache[[]int64]
	PieceInfo         *Cache[engine.PieceInfo]
	PieceAvailability *Cache[[]int]
	Trackers          *Cache[[]engine.AnnounceEntry]
}

func NewCaches(metrics []engine.StatsMetric) *Caches {
	return &Caches{
		Stats:             NewSessionStats(metrics),
		Jobs:              NewCache[engine.JobStatus]("jobs", nil),
		DHT:               NewDHTStatsCache(),
		Peers:             NewCache("peers", clonePeers),
		FileProgress:      NewCache("file_progress", slices.Clone[[]int64]),
		PieceInfo:         NewCache("piece_info", clonePieceInfo),
		PieceAvailability: NewCache("piece_availability", slices.Clone[[]int]),
		Trackers:          NewCache("trackers", cloneTrackers),
	}
}

type remover interface {
	Remove(id engine.Identity)
	Clear()
}

func (c *Caches) perJob() []remover {
	return []remover{c.Jobs, c.Peers, c.FileProgress, c.PieceInfo, c.PieceAvailability, c.Trackers}
}

// RemoveJob deletes id from every per-job cache. Removing an unknown id does nothing.
func (c *Caches) RemoveJob(id engine.Identity) {
	for _, r := range c.perJob() {
		r.Remove(id)
	}
}

// Clear empties every cache except the session counters, whose metric table is fixed.
func (c *Caches) Clear() {
	for _, r := range c.perJob() {
		r.Clear()
	}
	c.DHT.Clear()
}
