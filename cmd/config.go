package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	cfgpkg "github.com/veloscope/veloscope-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage veloscope configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current (default-merged) configuration to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return errors.New("configuration unavailable")
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
