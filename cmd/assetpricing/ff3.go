package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KRupuwu/Financial-Models/factors"
	"github.com/KRupuwu/Financial-Models/output"
	"github.com/KRupuwu/Financial-Models/regress"
	"github.com/KRupuwu/Financial-Models/returns"
)

var ff3Flags struct {
	ticker  string
	start   string
	end     string
	hacLags int
}

var ff3Cmd = &cobra.Command{
	Use:   "ff3",
	Short: "Run a Fama-French 3-factor regression with Newey-West errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDate("start", ff3Flags.start)
		if err != nil {
			return err
		}
		end, err := parseDate("end", ff3Flags.end)
		if err != nil {
			return err
		}

		provider, cleanup, err := newProvider()
		if err != nil {
			return err
		}
		defer cleanup()

		series, err := provider.Prices(ff3Flags.ticker, start, end)
		if err != nil {
			return err
		}
		table, err := provider.Factors(start, end)
		if err != nil {
			return err
		}
		ds, err := factors.Build(series, table, returns.Simple, factors.FF3)
		if err != nil {
			return err
		}
		res, err := ds.Fit(regress.Options{HACLags: ff3Flags.hacLags})
		if err != nil {
			return err
		}

		alphaAnn := math.Pow(1.0+res.Coef[0], cfg.TradingDays) - 1.0
		logrus.Infof("%s FF3: alpha=%.6f (ann %.4f) beta_mkt=%.4f smb=%.4f hml=%.4f r2=%.4f n=%d",
			ff3Flags.ticker, res.Coef[0], alphaAnn, res.Coef[1], res.Coef[2], res.Coef[3], res.R2, res.N)

		dir := cfg.Output.Dir
		summary := [][]string{{
			fmt.Sprintf("%g", res.Coef[0]), fmt.Sprintf("%g", alphaAnn),
			fmt.Sprintf("%g", res.Coef[1]), fmt.Sprintf("%g", res.Coef[2]), fmt.Sprintf("%g", res.Coef[3]),
			fmt.Sprintf("%g", res.TStat[0]), fmt.Sprintf("%g", res.TStat[1]),
			fmt.Sprintf("%g", res.TStat[2]), fmt.Sprintf("%g", res.TStat[3]),
			fmt.Sprintf("%g", res.PValue[0]), fmt.Sprintf("%g", res.PValue[1]),
			fmt.Sprintf("%g", res.PValue[2]), fmt.Sprintf("%g", res.PValue[3]),
			fmt.Sprintf("%g", res.R2), fmt.Sprintf("%d", res.N),
		}}
		header := []string{
			"alpha_daily", "alpha_annualized", "beta_mkt", "beta_smb", "beta_hml",
			"t_alpha", "t_mkt", "t_smb", "t_hml",
			"p_alpha", "p_mkt", "p_smb", "p_hml",
			"r2", "n_obs",
		}
		if err := output.WriteTable(
			filepath.Join(dir, fmt.Sprintf("ff3_summary_%s.csv", ff3Flags.ticker)), header, summary); err != nil {
			return err
		}
		return output.WriteMerged(
			filepath.Join(dir, fmt.Sprintf("ff3_merged_%s.csv", ff3Flags.ticker)),
			ds.Dates, ds.Excess, ds.Model.Names(), ds.Columns)
	},
}

func init() {
	f := ff3Cmd.Flags()
	f.StringVar(&ff3Flags.ticker, "ticker", "AAPL", "asset symbol")
	f.StringVar(&ff3Flags.start, "start", "2020-01-01", "history start date")
	f.StringVar(&ff3Flags.end, "end", "2025-08-01", "history end date")
	f.IntVar(&ff3Flags.hacLags, "hac-lags", 5, "Newey-West lags")
	rootCmd.AddCommand(ff3Cmd)
}
