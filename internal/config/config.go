package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a generation.
// Values are populated from .mcscoreboards.toml, MCSCOREBOARDS_* env vars,
// and CLI flags.
type Config struct {
	OutputDir     string        `mapstructure:"output_dir"`
	StatsDir      string        `mapstructure:"stats_dir"`
	Whitelist     string        `mapstructure:"whitelist"`
	AssetsDir     string        `mapstructure:"assets_dir"`
	HistoryDB     string        `mapstructure:"history_db"`
	Telemetry     string        `mapstructure:"telemetry"`
	FullCriteria  bool          `mapstructure:"full_criteria"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	Verbose       bool          `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("stats_dir", "")
	viper.SetDefault("whitelist", "")
	viper.SetDefault("assets_dir", "")
	viper.SetDefault("history_db", "")
	viper.SetDefault("telemetry", "")
	viper.SetDefault("full_criteria", false)
	viper.SetDefault("watch_debounce", "500ms")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.WatchDebounce <= 0 {
		return Config{}, fmt.Errorf("config: watch_debounce must be positive, got %s", cfg.WatchDebounce)
	}
	return cfg, nil
}
