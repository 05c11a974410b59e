package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath = DefaultConfigPath
	sourcePath = ""
	verbose    = false
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thaum",
	Short: "Thaumcraft aspect path finder",
	Long: `thaum finds the cheapest chain of related aspects between any two aspects.
Two aspects are related when one is a direct component of the other. Routes between
all aspects are computed once at startup and every query is answered from them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "query",
		Title: "Query Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "config file, defaults are used if it does not exist")
	rootCmd.PersistentFlags().StringVarP(&sourcePath, "source", "s", sourcePath, "aspect source file, overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}
