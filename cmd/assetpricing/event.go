package main

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KRupuwu/Financial-Models/data"
	"github.com/KRupuwu/Financial-Models/eventstudy"
	"github.com/KRupuwu/Financial-Models/factors"
	"github.com/KRupuwu/Financial-Models/output"
	"github.com/KRupuwu/Financial-Models/returns"
)

var eventFlags struct {
	ticker    string
	market    string
	eventDate string
	estDays   int
	pre       int
	post      int
	model     string
	rfDaily   float64
	hacLags   int
}

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Run an abnormal-return event study around a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventDate, err := parseDate("event-date", eventFlags.eventDate)
		if err != nil {
			return err
		}
		model, err := factors.ParseModel(eventFlags.model)
		if err != nil {
			return err
		}

		// Pull enough calendar history to cover the estimation window in
		// trading days, plus the event window and weekend/holiday gaps.
		start := eventDate.AddDate(0, 0, -2*(eventFlags.estDays+eventFlags.pre)-14)
		end := eventDate.AddDate(0, 0, 2*eventFlags.post+14)

		provider, cleanup, err := newProvider()
		if err != nil {
			return err
		}
		defer cleanup()

		series, err := provider.Prices(eventFlags.ticker, start, end)
		if err != nil {
			return err
		}

		var table data.FactorTable
		if model == factors.FF3 {
			table, err = provider.Factors(start, end)
		} else {
			var market data.PriceSeries
			market, err = provider.Prices(eventFlags.market, start, end)
			if err == nil {
				table, err = factors.TableFromMarket(market, eventFlags.rfDaily, returns.Simple)
			}
		}
		if err != nil {
			return err
		}

		ds, err := factors.Build(series, table, returns.Simple, model)
		if err != nil {
			return err
		}
		study, err := eventstudy.Run(ds, eventDate, eventstudy.Config{
			EstDays: eventFlags.estDays,
			Pre:     eventFlags.pre,
			Post:    eventFlags.post,
			HACLags: eventFlags.hacLags,
		})
		if err != nil {
			return err
		}

		last := study.Points[len(study.Points)-1]
		logrus.Infof("%s event %s (%s): CAR[%d,+%d]=%.4f (band %.4f..%.4f), est beta=%.4f",
			eventFlags.ticker, eventFlags.eventDate, model, -eventFlags.pre, eventFlags.post,
			last.CAR, last.CARLo, last.CARHi, study.Reg.Coef[1])

		return output.WriteStudy(filepath.Join(cfg.Output.Dir,
			fmt.Sprintf("event_%s_%s_%s.csv", model, eventFlags.ticker, eventFlags.eventDate)), study)
	},
}

func init() {
	f := eventCmd.Flags()
	f.StringVar(&eventFlags.ticker, "ticker", "AAPL", "asset symbol")
	f.StringVar(&eventFlags.market, "market", "SPY", "market index for the capm model")
	f.StringVar(&eventFlags.eventDate, "event-date", "", "event date YYYY-MM-DD")
	f.IntVar(&eventFlags.estDays, "est-days", 200, "estimation window length in trading days")
	f.IntVar(&eventFlags.pre, "pre", 5, "event window days before the event")
	f.IntVar(&eventFlags.post, "post", 5, "event window days after the event")
	f.StringVar(&eventFlags.model, "model", "capm", "expected-return model: capm or ff3")
	f.Float64Var(&eventFlags.rfDaily, "rf", 0.0, "daily risk-free rate for the capm model")
	f.IntVar(&eventFlags.hacLags, "hac-lags", 0, "Newey-West lags for the estimation regression")
	eventCmd.MarkFlagRequired("event-date")
	rootCmd.AddCommand(eventCmd)
}
