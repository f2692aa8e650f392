package sim

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/nav"
	"github.com/talgya/hexpath/internal/world"
)

// maxAttempts bounds how many ticks a requester re-asks for the same pair
// before giving up. Queued requests normally resolve within a tick or two;
// anything still empty after this is a genuinely unreachable goal.
const maxAttempts = 5

// Requester is a synthetic client that repeatedly asks the engine for a
// route between two hexes, re-requesting on later ticks when the
// throttler queued it.
type Requester struct {
	ID       uuid.UUID
	From     world.HexCoord
	To       world.HexCoord
	attempts int
}

// Load owns a set of requesters and drives them each tick.
type Load struct {
	engine     *nav.Engine
	coords     []world.HexCoord // passable hexes in a fixed order
	rng        *rand.Rand
	requesters []*Requester

	served    uint64
	abandoned uint64
}

// NewLoad creates count requesters over the map's passable hexes.
// Returns nil if the map has fewer than two passable hexes.
func NewLoad(engine *nav.Engine, m *world.Map, count int, seed int64) *Load {
	var coords []world.HexCoord
	m.EachTile(func(coord world.HexCoord, passable bool) {
		if passable {
			coords = append(coords, coord)
		}
	})
	if len(coords) < 2 {
		return nil
	}
	// Map iteration order is random; fix it so a seed reproduces a run.
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Q != coords[j].Q {
			return coords[i].Q < coords[j].Q
		}
		return coords[i].R < coords[j].R
	})

	l := &Load{
		engine: engine,
		coords: coords,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < count; i++ {
		r := &Requester{ID: uuid.New()}
		l.retarget(r)
		l.requesters = append(l.requesters, r)
	}
	return l
}

// Tick issues one request per requester. A non-empty answer (fresh or
// cached) retires the pair and picks a new one; an empty answer is
// retried next tick until maxAttempts, covering both throttled requests
// and unreachable goals.
func (l *Load) Tick() {
	for _, r := range l.requesters {
		path := l.engine.RequestPath(r.From, r.To)
		if len(path) > 0 {
			l.served++
			l.retarget(r)
			continue
		}
		r.attempts++
		if r.attempts >= maxAttempts {
			l.abandoned++
			l.retarget(r)
		}
	}
}

func (l *Load) retarget(r *Requester) {
	r.From = l.coords[l.rng.Intn(len(l.coords))]
	r.To = l.coords[l.rng.Intn(len(l.coords))]
	r.attempts = 0
}

// Served returns the number of requests answered with a route.
func (l *Load) Served() uint64 {
	return l.served
}

// Abandoned returns the number of pairs given up on after repeated
// empty answers.
func (l *Load) Abandoned() uint64 {
	return l.abandoned
}

// Size returns the number of requesters.
func (l *Load) Size() int {
	return len(l.requesters)
}
