package cmd

import (
	"context"

	"github.com/encodeous/thaum/core"
	"github.com/spf13/cobra"
)

var aspectCmd = &cobra.Command{
	Use:     "aspect <name>",
	Aliases: []string{"a"},
	Short:   "Shows an aspect and its components",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(ctx context.Context, e *core.Engine) error {
			c, err := e.Catalog(ctx)
			if err != nil {
				return err
			}
			ent, err := c.Find(args[0])
			if err != nil {
				return err
			}
			printEntity(cmd.OutOrStdout(), c, ent)
			return nil
		})
	},
	GroupID: "query",
}

func init() {
	rootCmd.AddCommand(aspectCmd)
}
