package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veloscope/veloscope-cli/internal/gen"
)

var genOpts = gen.DefaultOptions()

var genDataDir string

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic dataset for local runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := genDataDir
		if dataDir == "" && cfg != nil {
			dataDir = cfg.DataDir
		}
		if dataDir == "" {
			dataDir = "data"
		}
		if err := gen.Write(dataDir, genOpts); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d stations, %d trips to %s (seed %d)\n",
			genOpts.Stations, genOpts.Trips, dataDir, genOpts.Seed)
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genDataDir, "data-dir", "", "directory to write CSVs into (overrides config)")
	genCmd.Flags().IntVar(&genOpts.Stations, "stations", genOpts.Stations, "number of stations")
	genCmd.Flags().IntVar(&genOpts.Trips, "trips", genOpts.Trips, "number of trips")
	genCmd.Flags().IntVar(&genOpts.Users, "users", genOpts.Users, "number of users")
	genCmd.Flags().Int64Var(&genOpts.Seed, "seed", genOpts.Seed, "random seed (same seed, same files)")
	genCmd.Flags().Float64Var(&genOpts.DirtyFraction, "dirty", genOpts.DirtyFraction, "fraction of trip rows corrupted on purpose")
	rootCmd.AddCommand(genCmd)
}
