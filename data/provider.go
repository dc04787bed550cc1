// Package data fetches price and factor histories from a remote API, a
// local CSV fallback or a sqlite cache, and defines the series types the
// analysis packages consume.
package data

import (
	"errors"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable is returned when no provider in the chain could produce
// the requested data.
var ErrUnavailable = errors.New("data unavailable")

// Provider returns historical series for a symbol and date range. The
// range is inclusive on both ends.
type Provider interface {
	Prices(symbol string, start, end time.Time) (PriceSeries, error)
	Factors(start, end time.Time) (FactorTable, error)
}

// Chain tries primary and falls back to fallback exactly once.
type Chain struct {
	Primary  Provider
	Fallback Provider
}

func (c Chain) Prices(symbol string, start, end time.Time) (PriceSeries, error) {
	s, err := c.Primary.Prices(symbol, start, end)
	if err == nil {
		return s, nil
	}
	if c.Fallback == nil {
		return PriceSeries{}, err
	}
	logrus.WithError(err).Warnf("remote prices for %s failed, trying local fallback", symbol)
	s, ferr := c.Fallback.Prices(symbol, start, end)
	if ferr != nil {
		return PriceSeries{}, errors.Join(ErrUnavailable, err, ferr)
	}
	return s, nil
}

func (c Chain) Factors(start, end time.Time) (FactorTable, error) {
	t, err := c.Primary.Factors(start, end)
	if err == nil {
		return t, nil
	}
	if c.Fallback == nil {
		return nil, err
	}
	logrus.WithError(err).Warn("remote factors failed, trying local fallback")
	t, ferr := c.Fallback.Factors(start, end)
	if ferr != nil {
		return nil, errors.Join(ErrUnavailable, err, ferr)
	}
	return t, nil
}

// FetchAll pulls several symbols through the provider with a progress bar.
func FetchAll(p Provider, symbols []string, start, end time.Time) (map[string]PriceSeries, error) {
	out := make(map[string]PriceSeries, len(symbols))
	bar := progressBar(len(symbols))
	for _, s := range symbols {
		bar.Describe("Fetching " + s)
		series, err := p.Prices(s, start, end)
		if err != nil {
			return nil, err
		}
		out[s] = series
		bar.Add(1)
	}
	return out, nil
}

func progressBar(length int) *progressbar.ProgressBar {
	return progressbar.NewOptions(length,
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(24),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowDescriptionAtLineEnd())
}
