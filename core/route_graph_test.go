package core

import (
	"context"
	"strings"
	"testing"

	"github.com/encodeous/thaum/data"
	"github.com/encodeous/thaum/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bundledSource = strings.Join(data.AspectLines(), "\n")

func names(path []*state.Entity) []string {
	out := make([]string, 0, len(path))
	for _, e := range path {
		out = append(out, e.Name)
	}
	return out
}

func TestScenario(t *testing.T) {
	h := &RouterHarness{}
	g := buildGraph(t, scenarioSource, h)

	path, err := g.ShortestPath("Air", "Fire")
	require.NoError(t, err)
	assert.Equal(t, []string{"Air", "Smoke", "Fire"}, names(path))
	assert.Equal(t, 20, PathCost(path))

	_, err = g.ShortestPath("Air", "Earth")
	assert.ErrorIs(t, err, state.ErrRouteNotFound)
	var rnf *state.RouteNotFoundError
	require.ErrorAs(t, err, &rnf)
	assert.Equal(t, "Air", rnf.At)
	assert.Equal(t, "Earth", rnf.Goal)

	assert.False(t, g.IsComplete())
	assert.True(t, g.Converged())
	assert.Equal(t, 2, g.Rounds())

	a := h.GetActions()
	a.AssertContains(t, "RouteAdded", "node", "Air", "dst", "Smoke", "nh", "Smoke")
	a.AssertContains(t, "RouteAdded", "node", "Air", "dst", "Fire", "nh", "Smoke", "cost", 20)
	a.AssertContains(t, "RouteAdded", "node", "Fire", "dst", "Air", "nh", "Smoke", "cost", 20)
	a.AssertContains(t, "Converged", "rounds", 2)
	a.AssertContains(t, "IncompleteTable")
	a.AssertNotContains(t, "RouteImproved")
	a.AssertNotContains(t, "RoundLimitReached")
	// 4 seeded neighbours and 2 learned routes
	assert.Len(t, a.Filter("RouteAdded"), 6)
	assert.Len(t, a.Filter("RoundComplete"), 2)
}

func TestStringRoutes(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	assert.Equal(t, `Fire via Smoke (cost: 20)
Smoke via Smoke (cost: 10)`, g.StringRoutes(idOf(t, g, "Air")))
	assert.Equal(t, "", g.StringRoutes(idOf(t, g, "Earth")))
	assert.Equal(t, `Air via Air (cost: 10)
Fire via Fire (cost: 10)`, g.StringRoutes(idOf(t, g, "Smoke")))
}

func TestNextHop(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	air, fire, earth, smoke := idOf(t, g, "Air"), idOf(t, g, "Fire"), idOf(t, g, "Earth"), idOf(t, g, "Smoke")
	assert.Equal(t, smoke, g.NextHop(air, fire))
	assert.Equal(t, smoke, g.NextHop(fire, air))
	assert.Equal(t, fire, g.NextHop(smoke, fire))
	assert.Equal(t, state.NoRoute, g.NextHop(air, earth))
	assert.Equal(t, state.NoRoute, g.NextHop(earth, smoke))
}

func TestIncomplete(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	// every node misses a route to or from Earth
	assert.Len(t, g.Incomplete(), 4)
}

func TestSelfRoute(t *testing.T) {
	g := buildGraph(t, bundledSource, nil)
	for _, e := range g.Catalog.Entities {
		path, err := g.Path(e.Id, e.Id)
		require.NoError(t, err)
		assert.Equal(t, []*state.Entity{e}, path)
		assert.Equal(t, 0, PathCost(path))
	}
}

func TestDirectNeighbourOptimality(t *testing.T) {
	g := buildGraph(t, bundledSource, nil)
	for a, neighs := range g.Catalog.Neighbours {
		for _, b := range neighs {
			path, err := g.Path(state.EntityId(a), b)
			require.NoError(t, err)
			assert.Equal(t, g.Catalog.Get(b).Cost, PathCost(path), "%s -> %s", g.Catalog.Get(state.EntityId(a)), g.Catalog.Get(b))
			assert.Len(t, path, 2)
		}
	}
}

func TestBundledComplete(t *testing.T) {
	h := &RouterHarness{}
	g := buildGraph(t, bundledSource, h)
	assert.True(t, g.IsComplete())
	assert.True(t, g.Converged())
	assert.LessOrEqual(t, g.Rounds(), state.RelaxRounds)
	assert.True(t, g.Ready())
	assert.Equal(t, PhaseReady, g.Phase())

	a := h.GetActions()
	a.AssertContains(t, "Converged")
	a.AssertNotContains(t, "IncompleteTable")
	a.AssertNotContains(t, "RoundLimitReached")
}

func TestDeterminism(t *testing.T) {
	g1 := buildGraph(t, bundledSource, nil)
	g2 := buildGraph(t, bundledSource, nil)
	for a := range g1.Nodes {
		for b := range g1.Nodes {
			c1, ok1 := g1.Cost(state.EntityId(a), state.EntityId(b))
			c2, ok2 := g2.Cost(state.EntityId(a), state.EntityId(b))
			assert.Equal(t, ok1, ok2)
			assert.Equal(t, c1, c2)
		}
	}
}

func TestPathCostMatchesTableCost(t *testing.T) {
	g := buildGraph(t, bundledSource, nil)
	for a := range g.Nodes {
		for b := range g.Nodes {
			path, err := g.Path(state.EntityId(a), state.EntityId(b))
			require.NoError(t, err)
			cost, ok := g.Cost(state.EntityId(a), state.EntityId(b))
			require.True(t, ok)
			assert.Equal(t, cost, PathCost(path))
		}
	}
}

func TestCustomCostAvoidsExpensiveEntity(t *testing.T) {
	g := buildGraph(t, "A,a\nB,b\nHeavy,hv,A,B,50\nLight,lt,A,B\n", nil)
	path, err := g.ShortestPath("A", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Light", "B"}, names(path))
	assert.Equal(t, 20, PathCost(path))
}

func TestBundledCostedAspect(t *testing.T) {
	g := buildGraph(t, bundledSource, nil)
	// Tempus costs 20 and is a direct neighbour of Ordo
	path, err := g.ShortestPath("order", "time")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ordo", "Tempus"}, names(path))
	assert.Equal(t, 20, PathCost(path))
}

func TestShortestPath_Lookup(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	path, err := g.ShortestPath("ae", "FIRE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Air", "Smoke", "Fire"}, names(path))

	_, err = g.ShortestPath("Air", "Water")
	assert.ErrorIs(t, err, state.ErrEntityNotFound)
	assert.False(t, state.IsEngineFault(err))
}

func TestShortestPath_NotReady(t *testing.T) {
	g := NewRouteGraph(parseCatalog(t, scenarioSource))
	_, err := g.ShortestPath("Air", "Fire")
	assert.ErrorIs(t, err, state.ErrNotReady)

	require.NoError(t, g.Seed(nopRouter{}))
	_, err = g.ShortestPath("Air", "Smoke")
	assert.ErrorIs(t, err, state.ErrNotReady)
}

func TestPath_Cycle(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	air, smoke, earth := idOf(t, g, "Air"), idOf(t, g, "Smoke"), idOf(t, g, "Earth")
	g.Nodes[air].Nh[earth] = smoke
	g.Nodes[smoke].Nh[earth] = air

	_, err := g.Path(air, earth)
	assert.ErrorIs(t, err, state.ErrRoutingCycle)
	assert.True(t, state.IsEngineFault(err))
	_, ok := g.Cost(air, earth)
	assert.False(t, ok)
}

func TestPath_BrokenChain(t *testing.T) {
	g := buildGraph(t, scenarioSource, nil)
	air, smoke, earth := idOf(t, g, "Air"), idOf(t, g, "Smoke"), idOf(t, g, "Earth")
	g.Nodes[air].Nh[earth] = smoke

	_, err := g.Path(air, earth)
	var rnf *state.RouteNotFoundError
	require.ErrorAs(t, err, &rnf)
	assert.Equal(t, "Smoke", rnf.At)
}

func TestConstruct_RoundLimit(t *testing.T) {
	h := &RouterHarness{}
	g := NewRouteGraph(parseCatalog(t, bundledSource))
	require.NoError(t, g.Construct(t.Context(), 1, h))
	assert.True(t, g.Ready())
	assert.False(t, g.Converged())
	assert.Equal(t, 1, g.Rounds())

	a := h.GetActions()
	a.AssertContains(t, "RoundLimitReached", "rounds", 1)
	a.AssertNotContains(t, "Converged")
}

func TestConstruct_InvalidRounds(t *testing.T) {
	g := NewRouteGraph(parseCatalog(t, scenarioSource))
	assert.Error(t, g.Construct(t.Context(), 0, nil))
	assert.Error(t, g.Construct(t.Context(), state.MaxRelaxRounds+1, nil))
	assert.Equal(t, PhaseEmpty, g.Phase())
}

func TestConstruct_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	g := NewRouteGraph(parseCatalog(t, bundledSource))
	err := g.Construct(ctx, state.RelaxRounds, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, g.Ready())
	assert.Equal(t, PhaseSeeded, g.Phase())
}

func TestPhases(t *testing.T) {
	g := NewRouteGraph(parseCatalog(t, scenarioSource))
	_, err := g.Relax(nopRouter{})
	assert.Error(t, err)

	require.NoError(t, g.Seed(nopRouter{}))
	assert.Equal(t, PhaseSeeded, g.Phase())
	assert.Error(t, g.Seed(nopRouter{}))

	changes, err := g.Relax(nopRouter{})
	require.NoError(t, err)
	assert.Equal(t, 2, changes)
	assert.Equal(t, PhaseRelaxed, g.Phase())
	assert.False(t, g.Converged())

	changes, err = g.Relax(nopRouter{})
	require.NoError(t, err)
	assert.Equal(t, 0, changes)
	assert.True(t, g.Converged())
}

func TestEmptyCatalog(t *testing.T) {
	g := buildGraph(t, "", nil)
	assert.True(t, g.IsComplete())
	assert.True(t, g.Converged())
	assert.Equal(t, 1, g.Rounds())
}
