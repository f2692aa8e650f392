package nav

import (
	"testing"

	"github.com/talgya/hexpath/internal/world"
)

func hx(q, r int) world.HexCoord {
	return world.HexCoord{Q: q, R: r}
}

// linePath returns a straight path of n hexes starting at (q, r) heading east.
func linePath(q, r, n int) []world.HexCoord {
	path := make([]world.HexCoord, n)
	for i := range path {
		path[i] = hx(q+i, r)
	}
	return path
}

func keyFor(path []world.HexCoord) pathKey {
	return pathKey{From: path[0], To: path[len(path)-1]}
}

func TestPathCacheLRUEviction(t *testing.T) {
	c := newPathCache(3)

	p1 := linePath(0, 0, 3)
	p2 := linePath(0, 1, 3)
	p3 := linePath(0, 2, 3)
	p4 := linePath(0, 3, 3)

	c.put(keyFor(p1), p1)
	c.put(keyFor(p2), p2)
	c.put(keyFor(p3), p3)

	// Touch p1 so p2 becomes the least recently used.
	if _, ok := c.get(keyFor(p1)); !ok {
		t.Fatal("expected hit for p1")
	}

	c.put(keyFor(p4), p4)
	if c.size() != 3 {
		t.Fatalf("cache size = %d, want 3", c.size())
	}
	if _, ok := c.get(keyFor(p2)); ok {
		t.Error("p2 should have been evicted as least recently used")
	}
	if _, ok := c.get(keyFor(p1)); !ok {
		t.Error("recently touched p1 should have survived eviction")
	}
	if c.evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.evictions)
	}

	// Evicted entries must leave no reverse-index residue.
	for _, h := range p2 {
		if keys, ok := c.reverse[h]; ok {
			if _, stale := keys[keyFor(p2)]; stale {
				t.Errorf("reverse index at %v still references evicted entry", h)
			}
		}
	}
}

func TestPathCacheDirectedKeys(t *testing.T) {
	c := newPathCache(10)
	forward := linePath(0, 0, 3)

	c.put(keyFor(forward), forward)
	if _, ok := c.get(pathKey{From: forward[2], To: forward[0]}); ok {
		t.Error("reversed key should not hit the forward entry")
	}
}

func TestPathCacheTargetedInvalidation(t *testing.T) {
	c := newPathCache(10)

	p1 := linePath(0, 0, 4)  // passes through (2, 0)
	p2 := linePath(0, 5, 4)  // disjoint from p1
	shared := hx(2, 0)

	c.put(keyFor(p1), p1)
	c.put(keyFor(p2), p2)

	dropped := c.invalidate(shared)
	if dropped != 1 {
		t.Fatalf("invalidate dropped %d entries, want 1", dropped)
	}
	if _, ok := c.get(keyFor(p1)); ok {
		t.Error("entry through invalidated hex should be gone")
	}
	if _, ok := c.get(keyFor(p2)); !ok {
		t.Error("unrelated entry should have survived invalidation")
	}

	// The dropped entry must be deregistered from every hex it touched.
	for _, h := range p1 {
		if keys, ok := c.reverse[h]; ok {
			if _, stale := keys[keyFor(p1)]; stale {
				t.Errorf("reverse index at %v still references invalidated entry", h)
			}
		}
	}

	// Invalidating a hex nothing passes through drops nothing.
	if dropped := c.invalidate(hx(9, 9)); dropped != 0 {
		t.Errorf("invalidate of untouched hex dropped %d entries", dropped)
	}
}

func TestPathCacheOverlappingEntries(t *testing.T) {
	c := newPathCache(10)

	p1 := linePath(0, 0, 5)
	p2 := linePath(2, 0, 3) // shares (2,0)..(4,0) with p1
	c.put(keyFor(p1), p1)
	c.put(keyFor(p2), p2)

	// A hex on both paths invalidates both.
	if dropped := c.invalidate(hx(3, 0)); dropped != 2 {
		t.Fatalf("invalidate dropped %d entries, want 2", dropped)
	}
	if c.size() != 0 {
		t.Errorf("cache size = %d after invalidating both, want 0", c.size())
	}
	if len(c.reverse) != 0 {
		t.Errorf("reverse index holds %d hexes after full drop, want 0", len(c.reverse))
	}
}

func TestPathCacheInvalidateAll(t *testing.T) {
	c := newPathCache(10)
	for i := 0; i < 5; i++ {
		p := linePath(0, i, 3)
		c.put(keyFor(p), p)
	}

	c.invalidateAll()
	if c.size() != 0 {
		t.Errorf("cache size = %d after invalidateAll, want 0", c.size())
	}
	if len(c.reverse) != 0 {
		t.Errorf("reverse index holds %d hexes after invalidateAll, want 0", len(c.reverse))
	}
}

func TestPathCachePutReplacesExistingKey(t *testing.T) {
	c := newPathCache(10)
	key := pathKey{From: hx(0, 0), To: hx(3, 0)}

	c.put(key, linePath(0, 0, 4))
	detour := []world.HexCoord{hx(0, 0), hx(1, -1), hx(2, -1), hx(3, -1), hx(3, 0)}
	c.put(key, detour)

	if c.size() != 1 {
		t.Fatalf("cache size = %d after replacing a key, want 1", c.size())
	}
	got, ok := c.get(key)
	if !ok || len(got) != len(detour) {
		t.Fatalf("got %v, want the replacement path %v", got, detour)
	}
	// The old path's hexes must no longer reference the key.
	if keys, ok := c.reverse[hx(1, 0)]; ok {
		if _, stale := keys[key]; stale {
			t.Error("reverse index still references the replaced path")
		}
	}
}
