package core

import (
	"slices"

	"github.com/encodeous/thaum/state"
)

// ReferencePath finds the cheapest path from start to goal by brute force: a
// recursive depth first search over unvisited neighbours, exploring cheaper
// branches first, limited to maxHops hops. It shares no state with RouteGraph
// and is only used to validate it. Ties are broken by fewer hops.
func ReferencePath(c *state.Catalog, start, goal state.EntityId, maxHops int) ([]state.EntityId, int, bool) {
	s := &refSearch{
		catalog: c,
		goal:    goal,
		maxHops: maxHops,
		visited: make([]bool, c.Len()),
	}
	// a fewest-hop path bounds the search from the start
	if path := fewestHops(c, start, goal); path != nil && len(path)-1 <= maxHops {
		s.best = path
		for _, id := range path[1:] {
			s.bestCost += c.Entities[id].Cost
		}
	}
	s.visit(start, []state.EntityId{start}, 0)
	if s.best == nil {
		return nil, 0, false
	}
	return s.best, s.bestCost, true
}

// fewestHops runs a breadth first search and returns nil if goal is unreachable
func fewestHops(c *state.Catalog, start, goal state.EntityId) []state.EntityId {
	prev := make([]state.EntityId, c.Len())
	for i := range prev {
		prev[i] = state.NoRoute
	}
	prev[start] = start
	queue := []state.EntityId{start}
	for len(queue) > 0 && prev[goal] == state.NoRoute {
		cur := queue[0]
		queue = queue[1:]
		for _, neigh := range c.Neighbours[cur] {
			if prev[neigh] == state.NoRoute {
				prev[neigh] = cur
				queue = append(queue, neigh)
			}
		}
	}
	if prev[goal] == state.NoRoute {
		return nil
	}
	path := []state.EntityId{goal}
	for cur := goal; cur != start; cur = prev[cur] {
		path = append(path, prev[cur])
	}
	slices.Reverse(path)
	return path
}

type refSearch struct {
	catalog  *state.Catalog
	goal     state.EntityId
	maxHops  int
	visited  []bool
	best     []state.EntityId
	bestCost int
}

func (s *refSearch) visit(cur state.EntityId, path []state.EntityId, cost int) {
	// entity costs are positive, so a path can only get more expensive from here
	if s.best != nil && (cost > s.bestCost || cost == s.bestCost && len(path) >= len(s.best)) {
		return
	}
	if cur == s.goal {
		s.best = slices.Clone(path)
		s.bestCost = cost
		return
	}
	if len(path)-1 >= s.maxHops {
		return
	}

	s.visited[cur] = true
	defer func() { s.visited[cur] = false }()

	branches := make([]state.EntityId, 0)
	for _, neigh := range s.catalog.Neighbours[cur] {
		if !s.visited[neigh] {
			branches = append(branches, neigh)
		}
	}
	slices.SortStableFunc(branches, func(a, b state.EntityId) int {
		return s.catalog.Entities[a].Cost - s.catalog.Entities[b].Cost
	})

	for _, next := range branches {
		s.visit(next, append(path, next), cost+s.catalog.Entities[next].Cost)
	}
}

// Mismatch is a pair on which the route graph and ReferencePath disagree.
// Costs and hops are -1 on the side that found no path.
type Mismatch struct {
	Start, Goal   state.EntityId
	GraphCost     int
	ReferenceCost int
	GraphHops     int
	ReferenceHops int
	Err           error
}

// CrossCheck compares the route graph against ReferencePath for every given pair.
// Pairs that neither algorithm can connect agree with each other. Equal cost paths
// of different lengths agree too, unless strictHops is set.
func CrossCheck(g *RouteGraph, pairs []state.Pair[state.EntityId, state.EntityId], maxHops int, strictHops bool) []Mismatch {
	out := make([]Mismatch, 0)
	for _, p := range pairs {
		refPath, refCost, refOk := ReferencePath(g.Catalog, p.V1, p.V2, maxHops)
		refHops := len(refPath) - 1
		if !refOk {
			refCost, refHops = -1, -1
		}
		path, err := g.Path(p.V1, p.V2)
		if err != nil {
			if refOk {
				out = append(out, Mismatch{Start: p.V1, Goal: p.V2, GraphCost: -1, ReferenceCost: refCost, GraphHops: -1, ReferenceHops: refHops, Err: err})
			}
			continue
		}
		cost, hops := PathCost(path), len(path)-1
		if !refOk || cost != refCost || (strictHops && hops != refHops) {
			out = append(out, Mismatch{Start: p.V1, Goal: p.V2, GraphCost: cost, ReferenceCost: refCost, GraphHops: hops, ReferenceHops: refHops})
		}
	}
	return out
}
