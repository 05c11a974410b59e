package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/encodeous/thaum/core"
	"github.com/encodeous/thaum/state"
)

const DefaultConfigPath = "thaum.yaml"

// withEngine sets up the environment, starts an engine and runs fun with it
func withEngine(fun func(ctx context.Context, e *core.Engine) error) error {
	env, cleanup, err := core.Setup(configPath, sourcePath, verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	e := core.Start(env, core.SourceLoader(env.Cfg))
	defer e.Close()
	return fun(env.Context, e)
}

func printEntity(out io.Writer, c *state.Catalog, e *state.Entity) {
	fmt.Fprintf(out, "%s\n", e)
	if e.IsPrimal() {
		fmt.Fprintf(out, "  primal\n")
	} else {
		fmt.Fprintf(out, "  components: %s + %s\n", c.Get(e.Components.V1), c.Get(e.Components.V2))
	}
	fmt.Fprintf(out, "  cost: %d\n", e.Cost)
	neigh := make([]string, 0)
	for _, id := range c.Neighbours[e.Id] {
		neigh = append(neigh, c.Get(id).Name)
	}
	fmt.Fprintf(out, "  related: %s\n", strings.Join(neigh, ", "))
}

func printPath(out io.Writer, p core.Path) {
	fmt.Fprintln(out, p.String())
	fmt.Fprintf(out, "cost: %d, steps: %d\n", p.Cost, len(p.Entities)-1)
}

func printTable(out io.Writer, g *core.RouteGraph, e *state.Entity) {
	fmt.Fprintf(out, "routes of %s\n", e)
	for _, entry := range g.Table(e.Id) {
		fmt.Fprintf(out, "  %-14s via %-14s cost %d\n", g.Catalog.Get(entry.Dst).Name, g.Catalog.Get(entry.Nh).Name, entry.Cost)
	}
}
