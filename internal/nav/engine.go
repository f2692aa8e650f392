package nav

import (
	"sync"

	"github.com/talgya/hexpath/internal/world"
)

// MaxRequestsPerTick bounds how many cache-miss computations run within a
// single tick. Overflow requests queue FIFO and drain on later ticks, so
// worst-case per-tick solver work stays fixed no matter how many callers
// ask for paths at once.
const MaxRequestsPerTick = 50

// Stats is a snapshot of engine counters for diagnostics.
type Stats struct {
	Vertices      int    `json:"vertices"`
	Edges         int    `json:"edges"`
	CacheSize     int    `json:"cache_size"`
	QueueSize     int    `json:"queue_size"`
	FrameRequests int    `json:"frame_requests"`
	Computed      uint64 `json:"computed"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Evictions     uint64 `json:"evictions"`
}

// Engine is the pathfinding façade: it owns the graph, solver, cache, and
// request queue, and is the only thing callers talk to. All mutation is
// synchronous under one mutex; the tick owner calls AdvanceTick once per
// simulation step.
//
// The On* callbacks fire synchronously while the engine lock is held and
// must not call back into the engine.
type Engine struct {
	mu sync.Mutex

	source TerrainSource
	graph  *Graph
	cache  *pathCache
	queue  []pathKey // FIFO of throttled requests

	frameRequests int
	computed      uint64
	initialized   bool

	// Observability callbacks. Optional; nil callbacks are skipped.
	OnGraphRebuilt     func(vertices int)
	OnCacheInvalidated func(coord world.HexCoord, dropped int)
	OnRequestQueued    func(from, to world.HexCoord)
}

// NewEngine creates an uninitialized engine. Every query answers
// false/empty until Initialize is called.
func NewEngine() *Engine {
	return &Engine{
		graph: NewGraph(),
		cache: newPathCache(CacheCapacity),
	}
}

// Initialize attaches the terrain source and performs the initial full
// graph build. A nil source leaves the engine uninitialized.
func (e *Engine) Initialize(source TerrainSource) {
	if source == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = source
	e.rebuild()
	e.initialized = true
}

// IsInitialized reports whether Initialize has run.
func (e *Engine) IsInitialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// BuildGraph performs a full rebuild from the terrain source and clears
// the whole path cache, since a rebuild invalidates every assumption the
// cache was built on.
func (e *Engine) BuildGraph() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	e.rebuild()
}

func (e *Engine) rebuild() {
	e.graph.Build(e.source)
	e.cache.invalidateAll()
	if e.OnGraphRebuilt != nil {
		e.OnGraphRebuilt(e.graph.VertexCount())
	}
}

// UpdateHex re-reads passability for one hex and applies the incremental
// graph edit: remove the vertex if the tile became impassable, insert and
// connect it if it became passable. Cached paths through the hex are
// invalidated via the reverse index; unrelated entries are untouched.
// No-op when passability did not change.
func (e *Engine) UpdateHex(coord world.HexCoord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}

	passable := e.source.TileExists(coord) && e.source.IsTilePassable(coord)
	present := e.graph.ContainsHex(coord)
	if passable == present {
		return
	}

	if passable {
		e.graph.AddHex(coord)
	} else {
		e.graph.RemoveHex(coord)
	}

	dropped := e.cache.invalidate(coord)
	if e.OnCacheInvalidated != nil {
		e.OnCacheInvalidated(coord, dropped)
	}
}

// RequestPath returns the shortest walking route between two hexes, both
// endpoints included. Cache hits are served unconditionally and never
// consume throttle quota. On a miss the path is computed now if quota
// remains in this tick, otherwise the request queues and the result is
// empty for this call; the caller re-requests after a later tick and gets
// the cached answer. Empty also means no route or an uninitialized
// engine — the OnRequestQueued callback is what distinguishes "not yet
// computed" from "no path".
func (e *Engine) RequestPath(from, to world.HexCoord) []world.HexCoord {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil
	}

	key := pathKey{From: from, To: to}
	if path, ok := e.cache.get(key); ok {
		return clonePath(path)
	}

	if e.frameRequests >= MaxRequestsPerTick {
		e.queue = append(e.queue, key)
		if e.OnRequestQueued != nil {
			e.OnRequestQueued(from, to)
		}
		return nil
	}

	return clonePath(e.compute(key))
}

// compute runs the solver for one request, charging the tick quota and
// caching non-empty results. Callers hold e.mu.
func (e *Engine) compute(key pathKey) []world.HexCoord {
	e.frameRequests++
	e.computed++
	path := e.graph.FindPath(key.From, key.To)
	if len(path) > 0 {
		e.cache.put(key, path)
	}
	return path
}

// PathExists reports whether a walking route exists between the two
// hexes, including the trivial from == to case. It shares RequestPath's
// cache and throttle, so a throttled request reports false until the
// queued computation lands on a later tick.
func (e *Engine) PathExists(from, to world.HexCoord) bool {
	return len(e.RequestPath(from, to)) > 0
}

// IsPassable reports whether the hex exists and can be walked on. False
// for unknown hexes and while uninitialized.
func (e *Engine) IsPassable(coord world.HexCoord) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && e.graph.ContainsHex(coord)
}

// AdvanceTick marks a tick boundary: the per-tick request counter resets
// and queued requests drain FIFO-first until the queue empties or the
// fresh quota is spent. Called once per simulation step by the owner.
func (e *Engine) AdvanceTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.frameRequests = 0
	if !e.initialized {
		return
	}

	for len(e.queue) > 0 && e.frameRequests < MaxRequestsPerTick {
		key := e.queue[0]
		e.queue = e.queue[1:]
		// A duplicate request may have been solved since it queued.
		if _, ok := e.cache.get(key); ok {
			continue
		}
		e.compute(key)
	}
}

// CacheSize returns the number of cached paths.
func (e *Engine) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.size()
}

// QueueSize returns the number of requests awaiting computation.
func (e *Engine) QueueSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// FrameRequestCount returns how many cache-miss computations have run in
// the current tick.
func (e *Engine) FrameRequestCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameRequests
}

// Snapshot returns current engine counters.
func (e *Engine) Snapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Vertices:      e.graph.VertexCount(),
		Edges:         e.graph.EdgeCount(),
		CacheSize:     e.cache.size(),
		QueueSize:     len(e.queue),
		FrameRequests: e.frameRequests,
		Computed:      e.computed,
		Hits:          e.cache.hits,
		Misses:        e.cache.misses,
		Evictions:     e.cache.evictions,
	}
}

func clonePath(path []world.HexCoord) []world.HexCoord {
	if len(path) == 0 {
		return nil
	}
	out := make([]world.HexCoord, len(path))
	copy(out, path)
	return out
}
