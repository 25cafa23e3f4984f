package state

import (
	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

// DHTStatsCache holds the latest DHT snapshot only.
type DHTStatsCache struct {
	value *sync_.RWMutexed[generic.Option[engine.DHTStats]]
}

func NewDHTStatsCache() *DHTStatsCache {
	return &DHTStatsCache{value: sync_.NewRWMutexed(generic.None[engine.DHTStats]())}
}

func (c *DHTStatsCache) Update(stats engine.DHTStats) {
	c.value.Set(generic.Some(stats))
}

func (c *DHTStatsCache) Get() generic.Option[engine.DHTStats] {
	v := c.value.Get()
	if s, ok := v.Get(); ok {
		return generic.Some(cloneDHTStats(s))
	}
	return v
}

func (c *DHTStatsCache) Clear() {
	c.value.Set(generic.None[engine.DHTStats]())
}
