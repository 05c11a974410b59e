package core

import (
	"strings"

	"github.com/encodeous/thaum/state"
)

// ShortestPath resolves both names (case-insensitive, falling back to codes) and
// returns the cheapest known path from start to goal, both included.
func (g *RouteGraph) ShortestPath(start, goal string) ([]*state.Entity, error) {
	if !g.Ready() {
		return nil, state.ErrNotReady
	}
	s, err := g.Catalog.Find(start)
	if err != nil {
		return nil, err
	}
	t, err := g.Catalog.Find(goal)
	if err != nil {
		return nil, err
	}
	return g.Path(s.Id, t.Id)
}

// Path follows the next hops from start until goal is reached
func (g *RouteGraph) Path(start, goal state.EntityId) ([]*state.Entity, error) {
	path := []*state.Entity{g.Catalog.Entities[start]}
	cur := start
	for hops := 0; cur != goal; hops++ {
		if hops >= len(g.Nodes) {
			return nil, &state.RoutingCycleError{Start: g.name(start), Goal: g.name(goal), Hops: hops}
		}
		nh := g.NextHop(cur, goal)
		if nh == state.NoRoute {
			return nil, &state.RouteNotFoundError{At: g.name(cur), Goal: g.name(goal)}
		}
		cur = nh
		path = append(path, g.Catalog.Entities[cur])
	}
	return path, nil
}

// PathCost sums the cost of every entity in the path except the first
func PathCost(path []*state.Entity) int {
	cost := 0
	for i, e := range path {
		if i == 0 {
			continue
		}
		cost += e.Cost
	}
	return cost
}

// Path is a query result handed to the presentation layer
type Path struct {
	Entities []*state.Entity
	Cost     int
}

func (p Path) String() string {
	names := make([]string, 0, len(p.Entities))
	for _, e := range p.Entities {
		names = append(names, e.String())
	}
	return strings.Join(names, " -> ")
}
