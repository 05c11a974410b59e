package cmd

import (
	"context"

	"github.com/encodeous/thaum/core"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:     "table <name>",
	Aliases: []string{"t"},
	Short:   "Prints the route table of an aspect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, e *core.Engine) error {
			g, err := e.Graph(ctx)
			if err != nil {
				return err
			}
			ent, err := g.Catalog.Find(args[0])
			if err != nil {
				return err
			}
			printTable(cmd.OutOrStdout(), g, ent)
			return nil
		})
	},
	GroupID: "query",
}

func init() {
	rootCmd.AddCommand(tableCmd)
}
