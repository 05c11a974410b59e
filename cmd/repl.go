package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/encodeous/thaum/core"
	"github.com/encodeous/thaum/state"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

const replHelp = `commands:
  aspect <name>        show an aspect and its components
  path <from> <to>     cheapest chain between two aspects
  table <name>         route table of an aspect
  status               build progress
  quit                 exit`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Answers queries interactively",
	Long: `repl reads one query per line from stdin. Queries are accepted while the route graph is
still being built: aspect lookups are answered once the aspects are loaded, path queries
once routing is complete. With watch enabled, the graph is rebuilt when the source changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := core.Setup(configPath, sourcePath, verbose)
		if err != nil {
			return err
		}
		defer cleanup()

		r, err := core.NewReloader(env)
		if err != nil {
			return err
		}
		defer r.Close()

		return runRepl(env.Context, r.Engine, cmd.InOrStdin(), cmd.OutOrStdout())
	},
	GroupID: "query",
}

func runRepl(ctx context.Context, engine func() *core.Engine, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	fmt.Fprint(out, "> ")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := handleLine(engine(), line, out)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			fmt.Fprint(out, "> ")
		}
	}
}

// handleLine answers a single query without blocking on the build
func handleLine(e *core.Engine, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(out, replHelp)
		return nil
	case "status":
		fmt.Fprintf(out, "aspects loaded: %t, routes ready: %t\n", e.CatalogReady(), e.RoutesReady())
		return nil
	case "aspect", "a":
		if len(args) != 1 {
			return fmt.Errorf("usage: aspect <name>")
		}
		ent, err := e.TryFindEntity(args[0])
		if err != nil {
			return err
		}
		c, err := e.Catalog(context.Background())
		if err != nil {
			return err
		}
		printEntity(out, c, ent)
		return nil
	case "path", "p":
		if len(args) != 2 {
			return fmt.Errorf("usage: path <from> <to>")
		}
		p, err := e.TryShortestPath(args[0], args[1])
		if err != nil {
			return err
		}
		printPath(out, p)
		return nil
	case "table", "t":
		if len(args) != 1 {
			return fmt.Errorf("usage: table <name>")
		}
		if !e.RoutesReady() {
			return state.ErrNotReady
		}
		g, err := e.Graph(context.Background())
		if err != nil {
			return err
		}
		ent, err := g.Catalog.Find(args[0])
		if err != nil {
			return err
		}
		printTable(out, g, ent)
		return nil
	}
	return fmt.Errorf("unknown command %q, type help for a list of commands", fields[0])
}

func init() {
	rootCmd.AddCommand(replCmd)
}
