package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/veloscope/veloscope-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "veloscope",
	Short: "Veloscope CLI: batch analytics for bike-share trip data",
	Long: `Veloscope ingests trip, station, and maintenance CSVs, cleans and
validates them, and produces ranked analytics, summary statistics, and
outlier flags for a single batch run.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initLogger, loadConfig)
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.veloscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func initLogger() {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build logger: %v\n", err)
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}
