// Package config loads the optional YAML configuration file and applies
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults shared by all subcommands. Every analysis
// parameter (ticker, dates, strike, ...) stays a CLI flag; only ambient
// settings live here.
type Config struct {
	DataSource struct {
		APIKey     string `yaml:"api_key"`
		FactorsURL string `yaml:"factors_url"`
		// LocalDir holds the CSV fallbacks: asset_prices.csv (or
		// <symbol>.csv) and ff_factors.csv.
		LocalDir string `yaml:"local_dir"`
		// CachePath enables the sqlite price cache when non-empty.
		CachePath string `yaml:"cache_path"`
	} `yaml:"data_source"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	TradingDays float64 `yaml:"trading_days"`
	Decision    struct {
		EnterThreshold float64 `yaml:"enter_threshold"`
		SkipThreshold  float64 `yaml:"skip_threshold"`
	} `yaml:"decision"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.DataSource.LocalDir = "data"
	cfg.Output.Dir = "output"
	cfg.TradingDays = 252
	cfg.Decision.EnterThreshold = 0.05
	cfg.Decision.SkipThreshold = 0.05

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FACTORS_URL"); v != "" {
		cfg.DataSource.FactorsURL = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.TradingDays <= 0 {
		return fmt.Errorf("trading_days must be positive, got %v", c.TradingDays)
	}
	if c.Decision.EnterThreshold < 0 || c.Decision.SkipThreshold < 0 {
		return fmt.Errorf("decision thresholds must be non-negative")
	}
	return nil
}
