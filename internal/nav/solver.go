package nav

import (
	"container/heap"

	"github.com/talgya/hexpath/internal/world"
)

type pathNode struct {
	id     world.PointID
	g      int // cost from start, in hops
	f      int // g plus heuristic to goal
	seq    int // insertion order, breaks f-score ties deterministically
	parent *pathNode
	index  int
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath runs A* from one hex to another and returns the full route,
// both endpoints included, ordered start to goal. The heuristic is the
// hex distance, which is admissible and consistent for unit-cost moves,
// so the result has the minimum number of hops. An empty result means no
// route exists; from == to short-circuits to a single-element path
// without consulting the graph.
func (g *Graph) FindPath(from, to world.HexCoord) []world.HexCoord {
	if from == to {
		return []world.HexCoord{from}
	}

	startID := from.ID()
	goalID := to.ID()
	if !g.Contains(startID) || !g.Contains(goalID) {
		return nil
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{id: startID, g: 0, f: world.Distance(from, to), seq: seq})

	gScore := map[world.PointID]int{startID: 0}
	closed := make(map[world.PointID]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if _, seen := closed[current.id]; seen {
			continue
		}
		closed[current.id] = struct{}{}
		if current.id == goalID {
			return reconstructPath(current)
		}

		for _, nid := range g.Neighbors(current.id) {
			if _, seen := closed[nid]; seen {
				continue
			}
			tentativeG := current.g + 1
			if prev, ok := gScore[nid]; ok && tentativeG >= prev {
				continue
			}
			gScore[nid] = tentativeG
			seq++
			heap.Push(open, &pathNode{
				id:     nid,
				g:      tentativeG,
				f:      tentativeG + world.Distance(nid.Coord(), to),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil
}

func reconstructPath(end *pathNode) []world.HexCoord {
	length := 0
	for node := end; node != nil; node = node.parent {
		length++
	}
	path := make([]world.HexCoord, length)
	for node := end; node != nil; node = node.parent {
		length--
		path[length] = node.id.Coord()
	}
	return path
}
