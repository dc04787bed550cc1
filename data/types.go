package data

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const Layout = "2006-01-02"

// PricePoint is one (date, adjusted close) observation.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is an ordered daily price history for one symbol, strictly
// increasing in date with no duplicates.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Prices returns the close column.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Dates returns the date column.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// Validate checks ordering and duplicate dates.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i-1].Date.Before(s.Points[i].Date) {
			return fmt.Errorf("price series %s: dates not strictly increasing at %s",
				s.Symbol, s.Points[i].Date.Format(Layout))
		}
	}
	return nil
}

// sortPoints orders points by date, keeping the last value for duplicate
// dates.
func sortPoints(points []PricePoint) []PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for i, p := range points {
		if i > 0 && p.Date.Equal(points[i-1].Date) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// FactorRow is one day of Fama-French factor returns in decimals. A NaN
// marks a missing value; joins drop such rows.
type FactorRow struct {
	Date  time.Time
	MktRF float64
	SMB   float64
	HML   float64
	RF    float64
}

// FactorTable is a date-ordered factor history.
type FactorTable []FactorRow

// NormalizeScale converts percent-scaled factor tables to decimals.
// Detection uses the median |Mkt-RF|: daily market excess returns are well
// under 0.5 in decimals and well over it in percent.
func (t FactorTable) NormalizeScale() FactorTable {
	if len(t) == 0 {
		return t
	}
	abs := make([]float64, 0, len(t))
	for _, r := range t {
		if !math.IsNaN(r.MktRF) {
			abs = append(abs, math.Abs(r.MktRF))
		}
	}
	if len(abs) == 0 {
		return t
	}
	sort.Float64s(abs)
	if abs[len(abs)/2] <= 0.5 {
		return t
	}
	out := make(FactorTable, len(t))
	for i, r := range t {
		out[i] = FactorRow{
			Date:  r.Date,
			MktRF: r.MktRF / 100.0,
			SMB:   r.SMB / 100.0,
			HML:   r.HML / 100.0,
			RF:    r.RF / 100.0,
		}
	}
	return out
}

// Between narrows the table to [start, end].
func (t FactorTable) Between(start, end time.Time) FactorTable {
	var out FactorTable
	for _, r := range t {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}
