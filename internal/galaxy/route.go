package galaxy

import (
	"container/heap"
	"slices"

	"starmap-server/internal/spatial"
)

// routeState is a search node. Hops is only tracked when the jump count is
// capped; otherwise every location has a single state.
type routeState struct {
	key  spatial.Key
	hops int
}

type routeItem struct {
	state routeState
	loc   spatial.Location
	g     float64
	f     float64
	seq   int
}

// routeHeap is a min-heap by f, then by push order.
type routeHeap []routeItem

func (h routeHeap) Len() int { return len(h) }
func (h routeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h routeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *routeHeap) Push(x any)   { *h = append(*h, x.(routeItem)) }
func (h *routeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Route finds the shortest path from start to goal where every jump is at
// most opts.Range long. It is an A* search over the systems reachable from
// each expanded location, guided by the straight-line distance to goal.
// Cost is the summed Euclidean length of the path.
func (g *Galaxy) Route(start, goal spatial.Location, opts RouteOptions) (Route, bool) {
	if spatial.KeyOf(start) == spatial.KeyOf(goal) {
		return Route{Path: []spatial.Location{start}}, true
	}

	jumpRange := opts.Range
	if !(jumpRange > 0) {
		jumpRange = 0
	}
	capped := opts.MaxJumps > 0

	g.mu.RLock()
	defer g.mu.RUnlock()

	begin := routeState{key: spatial.KeyOf(start)}
	goalKey := spatial.KeyOf(goal)

	best := map[routeState]float64{begin: 0}
	parent := make(map[routeState]routeState)

	open := &routeHeap{}
	seq := 0
	heap.Push(open, routeItem{state: begin, loc: start, f: start.Distance(goal), seq: seq})

	expansions := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(routeItem)
		if cur.g > best[cur.state] {
			continue
		}

		if cur.state.key == goalKey {
			path := buildPath(parent, cur.state)
			return Route{Cost: cur.g, Jumps: len(path) - 1, Path: path}, true
		}

		expansions++
		if opts.MaxExpansions > 0 && expansions > opts.MaxExpansions {
			return Route{}, false
		}
		if capped && cur.state.hops >= opts.MaxJumps {
			continue
		}

		for _, next := range g.index.Within(cur.loc, jumpRange) {
			nextKey := spatial.KeyOf(next)
			if nextKey == cur.state.key {
				continue
			}

			state := routeState{key: nextKey}
			if capped {
				state.hops = cur.state.hops + 1
			}

			cost := cur.g + cur.loc.Distance(next)
			if known, ok := best[state]; ok && cost >= known {
				continue
			}
			best[state] = cost
			parent[state] = cur.state

			seq++
			heap.Push(open, routeItem{
				state: state,
				loc:   next,
				g:     cost,
				f:     cost + next.Distance(goal),
				seq:   seq,
			})
		}
	}

	return Route{}, false
}

func buildPath(parent map[routeState]routeState, end routeState) []spatial.Location {
	path := []spatial.Location{end.key.Location()}
	for s := end; ; {
		p, ok := parent[s]
		if !ok {
			break
		}
		path = append(path, p.key.Location())
		s = p
	}
	slices.Reverse(path)
	return path
}
