package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/thaum/state"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}
		cfg := state.DefaultCfg()
		cfg.Source = sourcePath
		err := state.ConfigValidator(&cfg)
		if err != nil {
			return err
		}
		err = state.WriteConfig(configPath, &cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(initCmd)
}
