package cmd

import (
	"context"

	"github.com/encodeous/thaum/core"
	"github.com/spf13/cobra"
)

var pathExact = false

var pathCmd = &cobra.Command{
	Use:     "path <from> <to>",
	Aliases: []string{"p"},
	Short:   "Finds the cheapest chain of related aspects between two aspects",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, e *core.Engine) error {
			query := e.ShortestPath
			if pathExact {
				query = e.ExactPath
			}
			p, err := query(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			printPath(cmd.OutOrStdout(), p)
			return nil
		})
	},
	GroupID: "query",
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().BoolVarP(&pathExact, "exact", "e", pathExact, "search exhaustively instead of using the route graph, limited to max_hops hops")
}
