// Package state holds the cached snapshots of engine state. Every cache is written only by the event dispatcher and
// may be read from any goroutine.
package state

import (
	"sort"

	cache "github.com/patrickmn/go-cache"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

// Cache maps job identity to the latest value seen for that job. Updates replace the whole value.
type Cache[V any] struct {
	name  string
	items *cache.Cache
	clone func(V) V
}

// NewCache creates an empty cache. Values are passed through clone on the way out, so callers never share memory with
// the cache.
func NewCache[V any](name string, clone func(V) V) *Cache[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Cache[V]{
		name:  name,
		items: cache.New(cache.NoExpiration, 0),
		clone: clone,
	}
}

func (c *Cache[V]) Name() string {
	return c.name
}

// Update inserts or replaces the value for id.
func (c *Cache[V]) Update(id engine.Identity, value V) {
	c.items.Set(string(id), value, cache.NoExpiration)
}

// Remove deletes id, if present.
func (c *Cache[V]) Remove(id engine.Identity) {
	c.items.Delete(string(id))
}

// Get returns a copy of the value for id, or None if nothing is known about id.
func (c *Cache[V]) Get(id engine.Identity) generic.Option[V] {
	obj, found := c.items.Get(string(id))
	if !found {
		return generic.None[V]()
	}
	return generic.Some(c.clone(obj.(V)))
}

func (c *Cache[V]) Has(id engine.Identity) bool {
	_, found := c.items.Get(string(id))
	return found
}

func (c *Cache[V]) Len() int {
	return c.items.ItemCount()
}

// Identities returns every identity in the cache, sorted.
func (c *Cache[V]) Identities() []engine.Identity {
	items := c.items.Items()
	ids := make([]engine.Identity, 0, len(items))
	for k := range items {
		ids = append(ids, engine.Identity(k))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns a copy of every entry.
func (c *Cache[V]) All() map[engine.Identity]V {
	items := c.items.Items()
	all := make(map[engine.Identity]V, len(items))
	for k, item := range items {
		all[engine.Identity(k)] = c.clone(item.Object.(V))
	}
	return all
}

func (c *Cache[V]) Clear() {
	c.items.Flush()
}
