// Package world provides the hex grid and terrain data structures.
// Uses axial coordinates (q, r) for the hex grid.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial
// coordinates, in fixed clockwise order starting east.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	if dq < 0 {
		dq = -dq
	}
	if dr < 0 {
		dr = -dr
	}
	if ds < 0 {
		ds = -ds
	}
	// Max of the three absolute differences in cube coordinates.
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// PointID is a bijective integer encoding of a HexCoord, used as the
// navigation graph's vertex key. Each axis is zig-zag encoded so negative
// coordinates round-trip exactly, then the two halves are packed into a
// single uint64.
type PointID uint64

// ID encodes the coordinate as a PointID.
func (h HexCoord) ID() PointID {
	return PointID(uint64(zigzag(h.Q))<<32 | uint64(zigzag(h.R)))
}

// Coord decodes a PointID back into its coordinate.
func (id PointID) Coord() HexCoord {
	return HexCoord{
		Q: unzigzag(uint32(uint64(id) >> 32)),
		R: unzigzag(uint32(uint64(id))),
	}
}

func zigzag(v int) uint32 {
	return uint32((int32(v) << 1) ^ (int32(v) >> 31))
}

func unzigzag(v uint32) int {
	return int(int32(v>>1) ^ -int32(v&1))
}
