package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KRupuwu/Financial-Models/config"
	"github.com/KRupuwu/Financial-Models/data"
)

var (
	cfgPath string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "assetpricing",
	Short: "Monte Carlo simulation and factor-model analysis for stock prices",
	Long: `assetpricing bundles the asset-pricing scripts into one binary:
a GBM Monte Carlo simulator, a European call pricer with a buy/skip
heuristic, a CAPM beta estimator, a Fama-French 3-factor report and an
abnormal-return event study.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; it carries the API key in development.
		_ = godotenv.Load()

		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		var err error
		cfg, err = config.Load(cfgPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newProvider assembles the provider chain: remote API, optionally behind
// the sqlite cache, with the local CSV directory as the one fallback.
func newProvider() (data.Provider, func(), error) {
	var primary data.Provider = data.NewRemote(cfg.DataSource.APIKey, cfg.DataSource.FactorsURL)
	cleanup := func() {}
	if cfg.DataSource.CachePath != "" {
		cache, err := data.NewCache(cfg.DataSource.CachePath, primary)
		if err != nil {
			return nil, nil, err
		}
		primary = cache
		cleanup = func() { cache.Close() }
	}
	return data.Chain{
		Primary:  primary,
		Fallback: data.Local{Dir: cfg.DataSource.LocalDir},
	}, cleanup, nil
}

func parseDate(flag, value string) (time.Time, error) {
	d, err := time.Parse(data.Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, value)
	}
	return d, nil
}

// seedPtr converts the --seed flag to the simulator's optional seed:
// negative means non-deterministic.
func seedPtr(seed int64) *uint64 {
	if seed < 0 {
		return nil
	}
	s := uint64(seed)
	return &s
}
