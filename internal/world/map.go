package world

import "fmt"

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open grassland
	TerrainForest                  // Dense woodland, walkable
	TerrainMountain                // Bare rock — impassable
	TerrainCoast                   // Shoreline, walkable
	TerrainRiver                   // Freshwater — impassable on foot
	TerrainDesert                  // Sand and scrub
	TerrainSwamp                   // Slow going but walkable
	TerrainTundra                  // Frozen ground
	TerrainOcean                   // Open water — impassable
)

// Passable reports whether agents can walk this terrain.
// Water and bare rock block movement; everything else is walkable.
func (t Terrain) Passable() bool {
	switch t {
	case TerrainOcean, TerrainRiver, TerrainMountain:
		return false
	}
	return true
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainForest:
		return "Forest"
	case TerrainMountain:
		return "Mountain"
	case TerrainCoast:
		return "Coast"
	case TerrainRiver:
		return "River"
	case TerrainDesert:
		return "Desert"
	case TerrainSwamp:
		return "Swamp"
	case TerrainTundra:
		return "Tundra"
	case TerrainOcean:
		return "Ocean"
	default:
		return "Unknown"
	}
}

// Hex represents a single tile on the world map.
type Hex struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Elevation set during world generation, 0.0 (sea level) to 1.0 (peak).
	Elevation float64 `json:"elevation"`
}

// Map holds the complete hex grid world state. It is the live terrain
// source the navigation engine reads passability from.
type Map struct {
	Hexes  map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Radius int               `json:"radius"`
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at the given coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// SetTerrain changes the terrain of an existing hex. Returns false if no
// tile exists at the coordinate.
func (m *Map) SetTerrain(coord HexCoord, t Terrain) bool {
	hex := m.Hexes[coord]
	if hex == nil {
		return false
	}
	hex.Terrain = t
	return true
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	q := coord.Q
	r := coord.R
	s := coord.S()
	if q < 0 {
		q = -q
	}
	if r < 0 {
		r = -r
	}
	if s < 0 {
		s = -s
	}
	max := q
	if r > max {
		max = r
	}
	if s > max {
		max = s
	}
	return max <= m.Radius
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// TileExists reports whether a tile is present at the coordinate.
func (m *Map) TileExists(coord HexCoord) bool {
	return m.Hexes[coord] != nil
}

// IsTilePassable reports whether the tile at the coordinate exists and
// can be walked on.
func (m *Map) IsTilePassable(coord HexCoord) bool {
	hex := m.Hexes[coord]
	return hex != nil && hex.Terrain.Passable()
}

// EachTile calls fn for every known tile with its current passability.
// Iteration order is unspecified; callers must not depend on it.
func (m *Map) EachTile(fn func(coord HexCoord, passable bool)) {
	for coord, hex := range m.Hexes {
		fn(coord, hex.Terrain.Passable())
	}
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
