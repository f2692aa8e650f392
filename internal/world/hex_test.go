package world

import "testing"

func TestNeighborsFixedOrder(t *testing.T) {
	origin := HexCoord{Q: 0, R: 0}
	want := [6]HexCoord{
		{Q: 1, R: 0},
		{Q: 1, R: -1},
		{Q: 0, R: -1},
		{Q: -1, R: 0},
		{Q: -1, R: 1},
		{Q: 0, R: 1},
	}
	got := origin.Neighbors()
	if got != want {
		t.Fatalf("neighbor order mismatch: got %v, want %v", got, want)
	}

	// Offsets apply uniformly from any origin.
	h := HexCoord{Q: -3, R: 7}
	for i, n := range h.Neighbors() {
		if Distance(h, n) != 1 {
			t.Errorf("neighbor %d of %v is %v, distance %d", i, h, n, Distance(h, n))
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{1, 0}, 1},
		{HexCoord{0, 0}, HexCoord{2, 0}, 2},
		{HexCoord{0, 0}, HexCoord{1, -1}, 1},
		{HexCoord{0, 0}, HexCoord{2, -1}, 2},
		{HexCoord{0, 0}, HexCoord{-3, 3}, 3},
		{HexCoord{-2, 5}, HexCoord{4, -1}, 6},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Errorf("Distance(%v, %v) = %d, want %d (symmetry)", c.b, c.a, got, c.want)
		}
	}
}

func TestPointIDRoundTrip(t *testing.T) {
	for q := -64; q <= 64; q++ {
		for r := -64; r <= 64; r++ {
			h := HexCoord{Q: q, R: r}
			if got := h.ID().Coord(); got != h {
				t.Fatalf("round trip failed: %v -> %d -> %v", h, h.ID(), got)
			}
		}
	}

	// Extremes of the practical coordinate range.
	extremes := []HexCoord{
		{Q: 1 << 30, R: -(1 << 30)},
		{Q: -(1 << 30), R: 1 << 30},
		{Q: 1<<31 - 1, R: 0},
		{Q: -(1 << 31), R: -1},
	}
	for _, h := range extremes {
		if got := h.ID().Coord(); got != h {
			t.Errorf("round trip failed for extreme %v: got %v", h, got)
		}
	}
}

func TestPointIDBijective(t *testing.T) {
	seen := make(map[PointID]HexCoord)
	for q := -20; q <= 20; q++ {
		for r := -20; r <= 20; r++ {
			h := HexCoord{Q: q, R: r}
			id := h.ID()
			if prev, ok := seen[id]; ok {
				t.Fatalf("PointID collision: %v and %v both encode to %d", prev, h, id)
			}
			seen[id] = h
		}
	}
}

func TestMapPassability(t *testing.T) {
	m := NewMap(2)
	m.Set(&Hex{Coord: HexCoord{0, 0}, Terrain: TerrainPlains})
	m.Set(&Hex{Coord: HexCoord{1, 0}, Terrain: TerrainOcean})
	m.Set(&Hex{Coord: HexCoord{0, 1}, Terrain: TerrainMountain})
	m.Set(&Hex{Coord: HexCoord{1, -1}, Terrain: TerrainRiver})
	m.Set(&Hex{Coord: HexCoord{-1, 0}, Terrain: TerrainSwamp})

	if !m.IsTilePassable(HexCoord{0, 0}) {
		t.Error("plains should be passable")
	}
	if !m.IsTilePassable(HexCoord{-1, 0}) {
		t.Error("swamp should be passable")
	}
	for _, c := range []HexCoord{{1, 0}, {0, 1}, {1, -1}} {
		if m.IsTilePassable(c) {
			t.Errorf("%s at %v should be impassable", TerrainName(m.Get(c).Terrain), c)
		}
	}
	if m.IsTilePassable(HexCoord{5, 5}) {
		t.Error("missing tile should not be passable")
	}
	if m.TileExists(HexCoord{5, 5}) {
		t.Error("missing tile should not exist")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	if a.HexCount() != b.HexCount() {
		t.Fatalf("hex counts differ: %d vs %d", a.HexCount(), b.HexCount())
	}
	for coord, hex := range a.Hexes {
		other := b.Get(coord)
		if other == nil {
			t.Fatalf("hex %v missing from second generation", coord)
		}
		if hex.Terrain != other.Terrain {
			t.Errorf("terrain differs at %v: %s vs %s",
				coord, TerrainName(hex.Terrain), TerrainName(other.Terrain))
		}
	}
}
