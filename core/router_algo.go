package core

import (
	"github.com/encodeous/thaum/state"
)

type RouterEvent int

// trace events

const (
	RouteAdded RouterEvent = iota
	RouteImproved
	RoundComplete
	Converged
)

// warn events

const (
	RoundLimitReached RouterEvent = iota + 1000
	IncompleteTable
)

func (e RouterEvent) String() string {
	switch e {
	case RouteAdded:
		return "RouteAdded"
	case RouteImproved:
		return "RouteImproved"
	case RoundComplete:
		return "RoundComplete"
	case Converged:
		return "Converged"
	case RoundLimitReached:
		return "RoundLimitReached"
	case IncompleteTable:
		return "IncompleteTable"
	}
	return "Unknown"
}

func (e RouterEvent) IsWarning() bool {
	return e >= 1000
}

// Router observes route table construction
type Router interface {
	Log(event RouterEvent, desc string, args ...any)
}

type nopRouter struct{}

func (nopRouter) Log(RouterEvent, string, ...any) {}

// seedNeighbours installs a direct route to every neighbour
func seedNeighbours(g *RouteGraph, r Router) {
	for _, node := range g.Nodes {
		for _, neigh := range g.Catalog.Neighbours[node.Id] {
			if node.Nh[neigh] == state.NoRoute {
				node.Nh[neigh] = neigh
				r.Log(RouteAdded, "seeded neighbour", "node", node.Name, "dst", g.name(neigh), "nh", g.name(neigh))
			}
		}
	}
}

// relaxRound runs exchangeRoutes for every ordered pair of adjacent nodes and
// returns the number of table entries that changed.
func relaxRound(g *RouteGraph, r Router) int {
	changes := 0
	for _, node := range g.Nodes {
		for _, neigh := range g.Catalog.Neighbours[node.Id] {
			changes += exchangeRoutes(g, node, g.Nodes[neigh], r)
		}
	}
	return changes
}

// exchangeRoutes adds every route other knows that node is missing, and replaces
// routes of node that are strictly more expensive than going through other.
func exchangeRoutes(g *RouteGraph, node, other *RouteNode, r Router) int {
	// Cost(N, M)
	cNM, ok := g.Cost(node.Id, other.Id)
	if !ok {
		r.Log(IncompleteTable, "no route to adjacent node", "node", node.Name, "neigh", other.Name)
		return 0
	}

	changes := 0
	for dst, nh := range other.Nh {
		d := state.EntityId(dst)
		if nh == state.NoRoute || d == node.Id || d == other.Id {
			continue
		}

		// Cost(M, D)
		cMD, ok := g.Cost(other.Id, d)
		if !ok {
			continue // other's own chain is broken, nothing to learn
		}
		candidate := cNM + cMD

		cur, ok := g.Cost(node.Id, d)
		if !ok {
			// add route if node doesn't know a way
			node.Nh[d] = other.Id
			changes++
			r.Log(RouteAdded, "route added", "node", node.Name, "dst", g.name(d), "nh", other.Name, "cost", candidate)
		} else if candidate < cur {
			// change route if the new route is cheaper
			node.Nh[d] = other.Id
			changes++
			r.Log(RouteImproved, "route improved", "node", node.Name, "dst", g.name(d), "nh", other.Name, "old", cur, "new", candidate)
		}
	}
	return changes
}
