package main

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KRupuwu/Financial-Models/data"
	"github.com/KRupuwu/Financial-Models/factors"
	"github.com/KRupuwu/Financial-Models/output"
	"github.com/KRupuwu/Financial-Models/regress"
	"github.com/KRupuwu/Financial-Models/returns"
)

var capmFlags struct {
	ticker  string
	market  string
	start   string
	end     string
	rfDaily float64
	hacLags int
	method  string
}

var capmCmd = &cobra.Command{
	Use:   "capm",
	Short: "Estimate CAPM alpha and beta against a market index",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDate("start", capmFlags.start)
		if err != nil {
			return err
		}
		end, err := parseDate("end", capmFlags.end)
		if err != nil {
			return err
		}
		method, err := returns.ParseMethod(capmFlags.method)
		if err != nil {
			return err
		}

		provider, cleanup, err := newProvider()
		if err != nil {
			return err
		}
		defer cleanup()

		series, err := data.FetchAll(provider, []string{capmFlags.ticker, capmFlags.market}, start, end)
		if err != nil {
			return err
		}
		table, err := factors.TableFromMarket(series[capmFlags.market], capmFlags.rfDaily, method)
		if err != nil {
			return err
		}
		ds, err := factors.Build(series[capmFlags.ticker], table, method, factors.CAPM)
		if err != nil {
			return err
		}
		res, err := ds.Fit(regress.Options{HACLags: capmFlags.hacLags})
		if err != nil {
			return err
		}

		logrus.Infof("%s vs %s: alpha=%.6f beta=%.4f (t=%.2f) r2=%.4f n=%d",
			capmFlags.ticker, capmFlags.market, res.Coef[0], res.Coef[1], res.TStat[1], res.R2, res.N)

		return output.WriteRegression(
			filepath.Join(cfg.Output.Dir, fmt.Sprintf("capm_%s.csv", capmFlags.ticker)), res)
	},
}

func init() {
	f := capmCmd.Flags()
	f.StringVar(&capmFlags.ticker, "ticker", "AAPL", "asset symbol")
	f.StringVar(&capmFlags.market, "market", "SPY", "market index symbol")
	f.StringVar(&capmFlags.start, "start", "2020-01-01", "history start date")
	f.StringVar(&capmFlags.end, "end", "2025-08-01", "history end date")
	f.Float64Var(&capmFlags.rfDaily, "rf", 0.0, "daily risk-free rate in decimals")
	f.IntVar(&capmFlags.hacLags, "hac-lags", 0, "Newey-West lags, 0 for plain OLS errors")
	f.StringVar(&capmFlags.method, "method", "simple", "return method: simple or log")
	rootCmd.AddCommand(capmCmd)
}
