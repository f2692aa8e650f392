// Package nav implements walking routes over the hex world: a sparse
// passability graph, an A* solver, a bounded LRU path cache with targeted
// invalidation, and a per-tick request throttler behind a single engine
// façade.
package nav

import "github.com/talgya/hexpath/internal/world"

// TerrainSource exposes tile existence and passability per hex. The
// engine only ever reads terrain; edits flow in through Engine.UpdateHex.
type TerrainSource interface {
	TileExists(coord world.HexCoord) bool
	IsTilePassable(coord world.HexCoord) bool
	EachTile(fn func(coord world.HexCoord, passable bool))
}

// Graph is a sparse adjacency structure over passable hexes. A vertex is
// present iff the corresponding tile exists and is currently passable;
// edges link present hex-neighbors with implicit unit weight. Adjacency
// lists are kept in the fixed neighbor-direction order so traversal is
// deterministic for a given graph.
type Graph struct {
	adj map[world.PointID][]world.PointID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[world.PointID][]world.PointID)}
}

// Contains reports whether the vertex is present.
func (g *Graph) Contains(id world.PointID) bool {
	_, ok := g.adj[id]
	return ok
}

// ContainsHex reports whether the hex has a vertex in the graph.
func (g *Graph) ContainsHex(coord world.HexCoord) bool {
	return g.Contains(coord.ID())
}

// Neighbors returns the adjacent vertices of id, or nil if id is absent.
func (g *Graph) Neighbors(id world.PointID) []world.PointID {
	return g.adj[id]
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, links := range g.adj {
		total += len(links)
	}
	return total / 2
}

// Build performs a full rescan of the terrain source: any existing
// vertices and edges are discarded, every passable tile becomes a vertex,
// then present hex-neighbors are connected.
func (g *Graph) Build(source TerrainSource) {
	g.adj = make(map[world.PointID][]world.PointID)

	source.EachTile(func(coord world.HexCoord, passable bool) {
		if passable {
			g.adj[coord.ID()] = nil
		}
	})

	for id := range g.adj {
		g.relink(id.Coord())
	}
}

// AddHex inserts a vertex for the hex and connects it to every present
// neighbor vertex. No-op if the vertex already exists.
func (g *Graph) AddHex(coord world.HexCoord) {
	id := coord.ID()
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = nil
	g.relink(coord)
	for _, n := range coord.Neighbors() {
		if g.Contains(n.ID()) {
			g.relink(n)
		}
	}
}

// RemoveHex removes the hex's vertex and its incident edges. No-op if the
// vertex is absent.
func (g *Graph) RemoveHex(coord world.HexCoord) {
	id := coord.ID()
	if _, ok := g.adj[id]; !ok {
		return
	}
	delete(g.adj, id)
	for _, n := range coord.Neighbors() {
		if g.Contains(n.ID()) {
			g.relink(n)
		}
	}
}

// relink recomputes the adjacency list of a present vertex by scanning
// its six neighbor directions in canonical order.
func (g *Graph) relink(coord world.HexCoord) {
	id := coord.ID()
	if _, ok := g.adj[id]; !ok {
		return
	}
	var links []world.PointID
	for _, n := range coord.Neighbors() {
		nid := n.ID()
		if _, ok := g.adj[nid]; ok {
			links = append(links, nid)
		}
	}
	g.adj[id] = links
}
