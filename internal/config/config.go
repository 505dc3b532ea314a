package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	OutDir  string `mapstructure:"out_dir" yaml:"out_dir"`

	TopStations   int    `mapstructure:"top_stations" yaml:"top_stations"`
	TopUsers      int    `mapstructure:"top_users" yaml:"top_users"`
	StationMetric string `mapstructure:"station_metric" yaml:"station_metric"`
	UserMetric    string `mapstructure:"user_metric" yaml:"user_metric"`

	OutlierMethod    string  `mapstructure:"outlier_method" yaml:"outlier_method"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	HistogramBins   int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	PricingStrategy string `mapstructure:"pricing_strategy" yaml:"pricing_strategy"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.veloscope/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "resolve home dir")
		}
		dir := filepath.Join(home, ".veloscope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "mkdir config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VELOSCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "data")
	v.SetDefault("out_dir", "output")
	v.SetDefault("top_stations", 10)
	v.SetDefault("top_users", 15)
	v.SetDefault("station_metric", "trips")
	v.SetDefault("user_metric", "trips")
	v.SetDefault("outlier_method", "zscore")
	v.SetDefault("outlier_threshold", 3.0)
	v.SetDefault("histogram_bins", 30)
	v.SetDefault("pricing_strategy", "casual")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home dir")
		}
		dir := filepath.Join(home, ".veloscope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &c, nil
}
