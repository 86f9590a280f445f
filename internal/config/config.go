// Package config resolves runtime settings from defaults, .newsrank.yaml,
// NEWSRANK_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/papapumpkin/newsrank/internal/report"
)

// ErrInvalid indicates a setting outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration for a ranking run.
type Config struct {
	TeleportRate  float64 `mapstructure:"teleport_rate"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
	Workers       int     `mapstructure:"workers"`
	Top           int     `mapstructure:"top"`
	Output        string  `mapstructure:"output"`
	Format        string  `mapstructure:"format"`
	LogLevel      string  `mapstructure:"log_level"`
	LogFormat     string  `mapstructure:"log_format"`
	TelemetryPath string  `mapstructure:"telemetry_path"`
	HistoryPath   string  `mapstructure:"history_path"`
	Verbose       bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates
// the result.
func Load() (Config, error) {
	viper.SetDefault("teleport_rate", 0.15)
	viper.SetDefault("max_iterations", 1000)
	viper.SetDefault("tolerance", 1e-10)
	viper.SetDefault("workers", 1)
	viper.SetDefault("top", 50)
	viper.SetDefault("output", report.DefaultPath)
	viper.SetDefault("format", string(report.FormatText))
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("history_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting outside its allowed range.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.TeleportRate) || c.TeleportRate < 0 || c.TeleportRate > 1:
		return fmt.Errorf("%w: teleport_rate %v not in [0, 1]", ErrInvalid, c.TeleportRate)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations %d must be positive", ErrInvalid, c.MaxIterations)
	case math.IsNaN(c.Tolerance) || c.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance %v must be positive", ErrInvalid, c.Tolerance)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalid, c.Workers)
	case c.Top < 0:
		return fmt.Errorf("%w: top %d must not be negative", ErrInvalid, c.Top)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q (want text or json)", ErrInvalid, c.LogFormat)
	}
	return nil
}
