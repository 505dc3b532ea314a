package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/veloscope/veloscope-cli/internal/analytics"
	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
	"github.com/veloscope/veloscope-cli/internal/report"
)

var (
	flagDataDir string
	flagOutDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest, validate, aggregate, report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return errors.New("configuration unavailable")
		}
		dataDir := cfg.DataDir
		if flagDataDir != "" {
			dataDir = flagDataDir
		}
		outDir := cfg.OutDir
		if flagOutDir != "" {
			outDir = flagOutDir
		}

		method, err := numeric.ParseOutlierMethod(cfg.OutlierMethod)
		if err != nil {
			return err
		}
		pricing, err := model.ParsePricingStrategy(cfg.PricingStrategy)
		if err != nil {
			return err
		}

		opts := analytics.Options{
			TopStations:      cfg.TopStations,
			TopUsers:         cfg.TopUsers,
			StationMetric:    cfg.StationMetric,
			UserMetric:       cfg.UserMetric,
			OutlierMethod:    method,
			OutlierThreshold: cfg.OutlierThreshold,
			HistogramBins:    cfg.HistogramBins,
			Pricing:          pricing,
		}

		p := analytics.New(opts, logger)
		if err := p.Ingest(dataDir); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := p.Aggregate(); err != nil {
			return err
		}
		if err := p.Report(report.Writer{HistogramBins: cfg.HistogramBins}, outDir); err != nil {
			return err
		}

		res := p.Results()
		fmt.Printf("✓ Run %s complete\n", p.RunID)
		fmt.Printf("  %d trips, %.2f km, revenue %.2f (%s pricing)\n",
			res.TotalTrips, res.TotalDistanceKM, res.TotalRevenue, res.Pricing)
		for _, r := range p.Reports() {
			fmt.Printf("  %s: %d/%d rows accepted\n", r.File, r.Accepted, r.RowsRead)
		}
		fmt.Printf("  reports written to %s\n", outDir)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "input directory (overrides config)")
	runCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "output directory (overrides config)")
	rootCmd.AddCommand(runCmd)
}
