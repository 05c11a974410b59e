package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/encodeous/thaum/core"
	"github.com/encodeous/thaum/state"
	"github.com/spf13/cobra"
)

var (
	checkPairs = 0
	checkSeed  = uint64(1)
	checkTrace = false
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Builds the route graph and cross-checks it against a brute force search",
	Long: `check builds the route graph, reports whether relaxation converged and whether every
aspect can reach every other aspect, then compares the cost of routed paths with an
exhaustive depth first search limited to max_hops hops.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := core.Setup(configPath, sourcePath, verbose)
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		var e *core.Engine
		if checkTrace {
			var events <-chan any
			var unsubscribe func()
			e, events, unsubscribe = core.StartTraced(env, core.SourceLoader(env.Cfg), 64)
			defer e.Close()
			waitTraced(env.Context, e, events, unsubscribe, out)
		} else {
			e = core.Start(env, core.SourceLoader(env.Cfg))
			defer e.Close()
		}

		g, err := e.Graph(env.Context)
		if err != nil {
			return err
		}
		return runCheck(out, g, samplePairs(g.Catalog.Len(), checkPairs, checkSeed), env.MaxHops)
	},
	GroupID: "tools",
}

// waitTraced prints trace events until the build finishes
func waitTraced(ctx context.Context, e *core.Engine, events <-chan any, unsubscribe func(), out io.Writer) {
	stop := make(chan struct{})
	printed := make(chan struct{})
	show := func(ev any) {
		if te, ok := ev.(core.TraceEvent); ok {
			fmt.Fprintf(out, "[%s] %s %v\n", te.Event, te.Desc, te.Args)
		}
	}
	go func() {
		defer close(printed)
		for {
			select {
			case ev := <-events:
				show(ev)
			case <-stop:
				for {
					select {
					case ev := <-events:
						show(ev)
					default:
						return
					}
				}
			}
		}
	}()
	_ = e.Wait(ctx)
	unsubscribe()
	close(stop)
	<-printed
}

// samplePairs returns n random ordered pairs of distinct entities, or every pair if n is 0
func samplePairs(entities, n int, seed uint64) []state.Pair[state.EntityId, state.EntityId] {
	out := make([]state.Pair[state.EntityId, state.EntityId], 0)
	if entities < 2 {
		return out
	}
	if n <= 0 {
		for a := range entities {
			for b := range entities {
				if a != b {
					out = append(out, state.Pair[state.EntityId, state.EntityId]{V1: state.EntityId(a), V2: state.EntityId(b)})
				}
			}
		}
		return out
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	for len(out) < n {
		a, b := rng.IntN(entities), rng.IntN(entities)
		if a == b {
			continue
		}
		out = append(out, state.Pair[state.EntityId, state.EntityId]{V1: state.EntityId(a), V2: state.EntityId(b)})
	}
	return out
}

func runCheck(out io.Writer, g *core.RouteGraph, pairs []state.Pair[state.EntityId, state.EntityId], maxHops int) error {
	c := g.Catalog
	fmt.Fprintf(out, "entities: %d, links: %d\n", c.Len(), len(c.Edges()))
	fmt.Fprintf(out, "relaxation rounds: %d, converged: %t\n", g.Rounds(), g.Converged())

	failed := false
	for _, e := range c.Entities {
		for _, n := range e.Names() {
			if found, err := c.Find(n); err != nil || found.Id != e.Id {
				failed = true
				fmt.Fprintf(out, "%q does not resolve to %s\n", n, e)
			}
		}
	}

	if inc := g.Incomplete(); len(inc) > 0 {
		failed = true
		fmt.Fprintf(out, "%d aspects cannot reach every other aspect:\n", len(inc))
		for _, id := range inc {
			fmt.Fprintf(out, "  %s\n", c.Get(id))
		}
	} else {
		fmt.Fprintln(out, "every aspect reaches every other aspect")
	}

	mismatches := core.CrossCheck(g, pairs, maxHops, false)
	fmt.Fprintf(out, "cross-checked %d pairs, %d mismatches\n", len(pairs), len(mismatches))
	for _, m := range mismatches {
		failed = true
		if m.Err != nil {
			fmt.Fprintf(out, "  %s -> %s: %v (reference cost %d)\n", c.Get(m.Start).Name, c.Get(m.Goal).Name, m.Err, m.ReferenceCost)
		} else {
			fmt.Fprintf(out, "  %s -> %s: routed cost %d in %d steps, reference cost %d in %d steps\n",
				c.Get(m.Start).Name, c.Get(m.Goal).Name, m.GraphCost, m.GraphHops, m.ReferenceCost, m.ReferenceHops)
		}
	}
	if failed {
		return fmt.Errorf("route graph check failed")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVarP(&checkPairs, "pairs", "p", checkPairs, "number of random pairs to cross-check, 0 checks every pair")
	checkCmd.Flags().Uint64Var(&checkSeed, "seed", checkSeed, "seed for picking random pairs")
	checkCmd.Flags().BoolVarP(&checkTrace, "trace", "t", checkTrace, "print router events while building")
}
