package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/encodeous/thaum/state"
)

type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseSeeded
	PhaseRelaxed
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseSeeded:
		return "seeded"
	case PhaseRelaxed:
		return "relaxed"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// RouteNode holds the routing table of one entity
type RouteNode struct {
	*state.Entity
	// Nh is indexed by destination, holding the neighbour to forward to, or state.NoRoute
	Nh []state.EntityId
}

// RouteGraph computes cheapest routes between all entities of a catalog.
//
// A graph is built once through Construct and is read-only after it becomes ready,
// so it may be queried from any goroutine without locking. A changed source requires
// building a new graph.
type RouteGraph struct {
	Catalog   *state.Catalog
	Nodes     []*RouteNode
	phase     Phase
	rounds    int
	converged bool
}

func NewRouteGraph(c *state.Catalog) *RouteGraph {
	g := &RouteGraph{
		Catalog: c,
		Nodes:   make([]*RouteNode, 0, c.Len()),
	}
	for _, e := range c.Entities {
		nh := make([]state.EntityId, c.Len())
		for i := range nh {
			nh[i] = state.NoRoute
		}
		// every node knows the zero length route to itself
		nh[e.Id] = e.Id
		g.Nodes = append(g.Nodes, &RouteNode{Entity: e, Nh: nh})
	}
	return g
}

func (g *RouteGraph) name(id state.EntityId) string {
	return g.Catalog.Entities[id].Name
}

func (g *RouteGraph) Phase() Phase {
	return g.phase
}

func (g *RouteGraph) Ready() bool {
	return g.phase == PhaseReady
}

// Rounds is the number of relaxation rounds that were run
func (g *RouteGraph) Rounds() int {
	return g.rounds
}

// Converged reports whether construction reached a fixed point within the round limit.
// An unconverged graph may hold routes that are not the cheapest.
func (g *RouteGraph) Converged() bool {
	return g.converged
}

// Seed installs the direct routes to all neighbours
func (g *RouteGraph) Seed(r Router) error {
	if g.phase != PhaseEmpty {
		return fmt.Errorf("cannot seed a %s graph", g.phase)
	}
	seedNeighbours(g, r)
	g.phase = PhaseSeeded
	return nil
}

// Relax runs a single relaxation round and returns the number of changed routes
func (g *RouteGraph) Relax(r Router) (int, error) {
	if g.phase != PhaseSeeded && g.phase != PhaseRelaxed {
		return 0, fmt.Errorf("cannot relax a %s graph", g.phase)
	}
	changes := relaxRound(g, r)
	g.rounds++
	g.phase = PhaseRelaxed
	r.Log(RoundComplete, "relaxation round complete", "round", g.rounds, "changes", changes)
	if changes == 0 {
		g.converged = true
	}
	return changes, nil
}

// Construct seeds the graph and runs up to maxRounds relaxation rounds, stopping early
// once a round changes nothing, since every later round would not change anything either.
func (g *RouteGraph) Construct(ctx context.Context, maxRounds int, r Router) error {
	if r == nil {
		r = nopRouter{}
	}
	if maxRounds < 1 || maxRounds > state.MaxRelaxRounds {
		return fmt.Errorf("round limit %d out of range [1, %d]", maxRounds, state.MaxRelaxRounds)
	}
	err := g.Seed(r)
	if err != nil {
		return err
	}
	for !g.converged && g.rounds < maxRounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.Relax(r); err != nil {
			return err
		}
	}
	if g.converged {
		r.Log(Converged, "route graph converged", "rounds", g.rounds)
	} else {
		r.Log(RoundLimitReached, "route graph did not converge", "rounds", g.rounds)
	}
	if missing := g.Incomplete(); len(missing) != 0 {
		r.Log(IncompleteTable, "some nodes cannot reach every other node", "count", len(missing))
	}
	g.phase = PhaseReady
	return nil
}

// Cost walks the route chain from -> to and sums the cost of every entity entered.
// It returns false if the chain is broken or loops.
func (g *RouteGraph) Cost(from, to state.EntityId) (int, bool) {
	cost := 0
	cur := from
	for hops := 0; cur != to; hops++ {
		if hops >= len(g.Nodes) {
			return 0, false
		}
		nh := g.NextHop(cur, to)
		if nh == state.NoRoute {
			return 0, false
		}
		cur = nh
		cost += g.Catalog.Entities[cur].Cost
	}
	return cost, true
}

// NextHop is the neighbour of from on the cheapest known route to to, or NoRoute
func (g *RouteGraph) NextHop(from, to state.EntityId) state.EntityId {
	return g.Nodes[from].Nh[to]
}

// IsComplete checks whether every node has a route to every other node
func (g *RouteGraph) IsComplete() bool {
	return len(g.Incomplete()) == 0
}

// Incomplete returns the nodes missing a route to at least one other node
func (g *RouteGraph) Incomplete() []state.EntityId {
	out := make([]state.EntityId, 0)
	for _, node := range g.Nodes {
		for _, nh := range node.Nh {
			if nh == state.NoRoute {
				out = append(out, node.Id)
				break
			}
		}
	}
	return out
}

type TableEntry struct {
	Dst  state.EntityId
	Nh   state.EntityId
	Cost int
}

// Table lists the routes known by a node, ordered by destination, excluding itself
func (g *RouteGraph) Table(id state.EntityId) []TableEntry {
	out := make([]TableEntry, 0)
	for dst := range g.Nodes[id].Nh {
		d := state.EntityId(dst)
		nh := g.NextHop(id, d)
		if nh == state.NoRoute || d == id {
			continue
		}
		cost, ok := g.Cost(id, d)
		if !ok {
			cost = -1
		}
		out = append(out, TableEntry{Dst: d, Nh: nh, Cost: cost})
	}
	return out
}

func (g *RouteGraph) StringRoutes(id state.EntityId) string {
	buf := make([]string, 0)
	for _, entry := range g.Table(id) {
		buf = append(buf, fmt.Sprintf("%s via %s (cost: %d)", g.name(entry.Dst), g.name(entry.Nh), entry.Cost))
	}
	return strings.Join(buf, "\n")
}
