package nav

import (
	"container/list"

	"github.com/talgya/hexpath/internal/world"
)

// CacheCapacity is the maximum number of paths the cache holds; the
// least-recently-used entry is evicted on overflow.
const CacheCapacity = 100

// pathKey identifies a cached path. Keys are directed: (a,b) and (b,a)
// are distinct entries.
type pathKey struct {
	From world.HexCoord
	To   world.HexCoord
}

type cacheEntry struct {
	key  pathKey
	path []world.HexCoord
}

// pathCache is a bounded LRU store of solved paths with a reverse spatial
// index (hex → keys of paths passing through it) so a terrain edit can
// invalidate exactly the affected entries.
type pathCache struct {
	capacity int
	entries  map[pathKey]*list.Element
	order    *list.List // front = most recently used
	reverse  map[world.HexCoord]map[pathKey]struct{}

	hits      uint64
	misses    uint64
	evictions uint64
}

func newPathCache(capacity int) *pathCache {
	return &pathCache{
		capacity: capacity,
		entries:  make(map[pathKey]*list.Element),
		order:    list.New(),
		reverse:  make(map[world.HexCoord]map[pathKey]struct{}),
	}
}

// get returns the cached path for the key, refreshing its recency.
func (c *pathCache) get(key pathKey) ([]world.HexCoord, bool) {
	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).path, true
}

// put stores a path under the key and registers every hex it passes
// through in the reverse index, evicting the LRU entry on overflow.
func (c *pathCache) put(key pathKey, path []world.HexCoord) {
	if elem, ok := c.entries[key]; ok {
		c.drop(elem)
	}

	elem := c.order.PushFront(&cacheEntry{key: key, path: path})
	c.entries[key] = elem
	for _, coord := range path {
		keys := c.reverse[coord]
		if keys == nil {
			keys = make(map[pathKey]struct{})
			c.reverse[coord] = keys
		}
		keys[key] = struct{}{}
	}

	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.drop(oldest)
		c.evictions++
	}
}

// invalidate removes every entry whose path passes through the hex.
// Unrelated entries are untouched. Returns the number of entries dropped.
func (c *pathCache) invalidate(coord world.HexCoord) int {
	keys := c.reverse[coord]
	dropped := 0
	for key := range keys {
		if elem, ok := c.entries[key]; ok {
			c.drop(elem)
			dropped++
		}
	}
	return dropped
}

// invalidateAll clears the cache and reverse index entirely.
func (c *pathCache) invalidateAll() {
	c.entries = make(map[pathKey]*list.Element)
	c.order.Init()
	c.reverse = make(map[world.HexCoord]map[pathKey]struct{})
}

func (c *pathCache) size() int {
	return len(c.entries)
}

// drop removes an entry and deregisters it from the reverse index of
// every hex it touched.
func (c *pathCache) drop(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	c.order.Remove(elem)
	delete(c.entries, entry.key)
	for _, coord := range entry.path {
		keys := c.reverse[coord]
		delete(keys, entry.key)
		if len(keys) == 0 {
			delete(c.reverse, coord)
		}
	}
}
