package galaxy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

func chainGalaxy(t *testing.T) *Galaxy {
	return mustGalaxy(t,
		newSystem("a", 0, 0, 0),
		newSystem("b", 1, 0, 0),
		newSystem("c", 2, 0, 0),
		newSystem("d", 3, 0, 0),
	)
}

func assertValidPath(t *testing.T, route Route, start, goal spatial.Location, jumpRange float64) {
	t.Helper()
	require.NotEmpty(t, route.Path)
	assert.Equal(t, start, route.Path[0])
	assert.Equal(t, goal, route.Path[len(route.Path)-1])
	assert.Equal(t, len(route.Path)-1, route.Jumps)

	total := 0.0
	for i := 1; i < len(route.Path); i++ {
		d := route.Path[i-1].Distance(route.Path[i])
		assert.LessOrEqual(t, d, jumpRange)
		total += d
	}
	assert.InDelta(t, route.Cost, total, 1e-9)
}

func TestRouteChain(t *testing.T) {
	g := chainGalaxy(t)
	start, goal := spatial.NewLocation(0, 0, 0), spatial.NewLocation(3, 0, 0)

	route, ok := g.Route(start, goal, RouteOptions{Range: 1.5})
	require.True(t, ok)
	assert.InDelta(t, 3.0, route.Cost, 1e-12)
	assert.Equal(t, 3, route.Jumps)
	assert.Equal(t, []spatial.Location{
		spatial.NewLocation(0, 0, 0),
		spatial.NewLocation(1, 0, 0),
		spatial.NewLocation(2, 0, 0),
		spatial.NewLocation(3, 0, 0),
	}, route.Path)

	_, ok = g.Route(start, goal, RouteOptions{Range: 0.5})
	assert.False(t, ok)
}

func TestRouteStartIsGoal(t *testing.T) {
	g := chainGalaxy(t)
	loc := spatial.NewLocation(2, 0, 0)

	route, ok := g.Route(loc, loc, RouteOptions{Range: 0})
	require.True(t, ok)
	assert.Equal(t, 0.0, route.Cost)
	assert.Equal(t, 0, route.Jumps)
	assert.Equal(t, []spatial.Location{loc}, route.Path)
}

func TestRouteInvalidRange(t *testing.T) {
	g := chainGalaxy(t)
	start, goal := spatial.NewLocation(0, 0, 0), spatial.NewLocation(3, 0, 0)

	_, ok := g.Route(start, goal, RouteOptions{Range: -1})
	assert.False(t, ok)
	_, ok = g.Route(start, goal, RouteOptions{Range: math.NaN()})
	assert.False(t, ok)
}

func TestRouteJumpCap(t *testing.T) {
	g := mustGalaxy(t,
		newSystem("start", 0, 0, 0),
		newSystem("a", 2, 0, 0),
		newSystem("b", 4, 0, 0),
		newSystem("goal", 6, 0, 0),
		newSystem("mid", 3, 0.5, 0),
	)
	start, goal := spatial.NewLocation(0, 0, 0), spatial.NewLocation(6, 0, 0)

	route, ok := g.Route(start, goal, RouteOptions{Range: 3.1})
	require.True(t, ok)
	assert.InDelta(t, 6.0, route.Cost, 1e-12)
	assert.Equal(t, 3, route.Jumps)

	route, ok = g.Route(start, goal, RouteOptions{Range: 3.1, MaxJumps: 2})
	require.True(t, ok)
	assert.InDelta(t, 2*math.Sqrt(9.25), route.Cost, 1e-12)
	assert.Equal(t, []spatial.Location{start, spatial.NewLocation(3, 0.5, 0), goal}, route.Path)

	_, ok = g.Route(start, goal, RouteOptions{Range: 3.1, MaxJumps: 1})
	assert.False(t, ok)
}

func TestRouteExpansionLimit(t *testing.T) {
	g := chainGalaxy(t)
	start, goal := spatial.NewLocation(0, 0, 0), spatial.NewLocation(3, 0, 0)

	_, ok := g.Route(start, goal, RouteOptions{Range: 1.5, MaxExpansions: 1})
	assert.False(t, ok)

	_, ok = g.Route(start, goal, RouteOptions{Range: 1.5, MaxExpansions: 10})
	assert.True(t, ok)
}

// dijkstra is a quadratic reference over the full jump graph.
func dijkstra(systems []system.System, from, to int, jumpRange float64) (float64, bool) {
	n := len(systems)
	dist := make([]float64, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[from] = 0

	for {
		u := -1
		for i := range n {
			if !done[i] && !math.IsInf(dist[i], 1) && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u < 0 {
			return 0, false
		}
		if u == to {
			return dist[u], true
		}
		done[u] = true

		for v := range n {
			d := systems[u].Location.Distance(systems[v].Location)
			if v != u && d <= jumpRange && dist[u]+d < dist[v] {
				dist[v] = dist[u] + d
			}
		}
	}
}

func TestRouteMatchesDijkstra(t *testing.T) {
	systems := randomSystems(21, 120, 30)
	g := mustGalaxy(t, systems...)

	for i := range 40 {
		from, to := i, (i*37+11)%len(systems)
		jumpRange := 4.0 + float64(i%4)

		want, wantOK := dijkstra(systems, from, to, jumpRange)
		route, ok := g.Route(systems[from].Location, systems[to].Location, RouteOptions{Range: jumpRange})

		require.Equal(t, wantOK, ok, "pair %d -> %d", from, to)
		if ok {
			assert.InDelta(t, want, route.Cost, 1e-9)
			assertValidPath(t, route, systems[from].Location, systems[to].Location, jumpRange)
		}
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	systems := randomSystems(33, 150, 30)
	g := mustGalaxy(t, systems...)
	start, goal := systems[0].Location, systems[len(systems)-1].Location

	first, ok1 := g.Route(start, goal, RouteOptions{Range: 6})
	second, ok2 := g.Route(start, goal, RouteOptions{Range: 6})
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestRouteHugeCoordinates(t *testing.T) {
	origin := spatial.NewLocation(0, 0, 0)
	a := spatial.NewLocation(1e300, 0, 0)
	b := spatial.NewLocation(1e300+1e285, 0, 0)
	g := mustGalaxy(t,
		newSystem("Origin", origin.X, origin.Y, origin.Z),
		newSystem("Far", a.X, a.Y, a.Z),
		newSystem("Farther", b.X, b.Y, b.Z),
	)

	assert.Equal(t, []spatial.Location{a}, g.Reachable(a, 0))
	assert.ElementsMatch(t, []spatial.Location{a, b}, g.Reachable(b, 1e286))

	nearest, ok := g.Nearest(spatial.NewLocation(2e300, 0, 0))
	require.True(t, ok)
	assert.Equal(t, b, nearest)

	route, ok := g.Route(a, b, RouteOptions{Range: 1e286})
	require.True(t, ok)
	assert.Equal(t, []spatial.Location{a, b}, route.Path)
	assert.Equal(t, 1, route.Jumps)

	_, ok = g.Route(origin, b, RouteOptions{Range: 1e286})
	assert.False(t, ok)

	route, ok = g.Route(origin, b, RouteOptions{Range: math.MaxFloat64})
	require.True(t, ok)
	assert.Equal(t, origin, route.Path[0])
	assert.Equal(t, b, route.Path[len(route.Path)-1])
}
