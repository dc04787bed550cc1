// Package factors joins asset returns with factor histories into the
// date-aligned dataset the regressions run on.
package factors

import (
	"fmt"
	"math"
	"time"

	"github.com/KRupuwu/Financial-Models/data"
	"github.com/KRupuwu/Financial-Models/regress"
	"github.com/KRupuwu/Financial-Models/returns"
)

// Model selects the factor columns.
type Model int

const (
	// CAPM regresses on the market excess return only.
	CAPM Model = iota
	// FF3 adds the SMB size and HML value factors.
	FF3
)

func (m Model) String() string {
	if m == FF3 {
		return "ff3"
	}
	return "capm"
}

// ParseModel maps a flag value to a Model.
func ParseModel(s string) (Model, error) {
	switch s {
	case "capm":
		return CAPM, nil
	case "ff3":
		return FF3, nil
	}
	return 0, fmt.Errorf("unknown factor model %q (want capm or ff3)", s)
}

// Names returns the regressor names for the model.
func (m Model) Names() []string {
	if m == FF3 {
		return []string{"mkt-rf", "smb", "hml"}
	}
	return []string{"mkt-rf"}
}

// Dataset is the inner join of asset excess returns with the factor
// columns. Rows with a missing value in any column are dropped.
type Dataset struct {
	Model   Model
	Dates   []time.Time
	Excess  []float64
	Columns [][]float64
}

// Build derives per-day asset returns from the price series, subtracts RF
// and joins with the factor table by date.
func Build(series data.PriceSeries, table data.FactorTable, method returns.Method, model Model) (*Dataset, error) {
	rets, err := returns.Estimate(series.Prices(), method)
	if err != nil {
		return nil, err
	}
	dates := series.Dates()[1:] // return i belongs to the later date

	byDate := make(map[time.Time]data.FactorRow, len(table))
	for _, r := range table {
		byDate[r.Date] = r
	}

	ncols := len(model.Names())
	ds := &Dataset{Model: model, Columns: make([][]float64, ncols)}
	for i, d := range dates {
		row, ok := byDate[d]
		if !ok {
			continue
		}
		cols := []float64{row.MktRF}
		if model == FF3 {
			cols = append(cols, row.SMB, row.HML)
		}
		if hasNaN(row.RF, cols...) {
			continue
		}
		ds.Dates = append(ds.Dates, d)
		ds.Excess = append(ds.Excess, rets[i]-row.RF)
		for k := 0; k < ncols; k++ {
			ds.Columns[k] = append(ds.Columns[k], cols[k])
		}
	}
	if len(ds.Dates) == 0 {
		return nil, fmt.Errorf("%w: no overlapping dates between %s and the factor table",
			returns.ErrInsufficientData, series.Symbol)
	}
	return ds, nil
}

// Fit runs the factor regression over the whole dataset.
func (ds *Dataset) Fit(opts regress.Options) (*regress.Result, error) {
	return regress.Fit(ds.Excess, ds.Model.Names(), ds.Columns, opts)
}

// Slice returns the half-open row range [lo, hi) as a shallow dataset.
func (ds *Dataset) Slice(lo, hi int) *Dataset {
	out := &Dataset{
		Model:   ds.Model,
		Dates:   ds.Dates[lo:hi],
		Excess:  ds.Excess[lo:hi],
		Columns: make([][]float64, len(ds.Columns)),
	}
	for k, col := range ds.Columns {
		out.Columns[k] = col[lo:hi]
	}
	return out
}

// Row returns the factor values of one observation.
func (ds *Dataset) Row(i int) []float64 {
	out := make([]float64, len(ds.Columns))
	for k, col := range ds.Columns {
		out[k] = col[i]
	}
	return out
}

// Len is the number of joined observations.
func (ds *Dataset) Len() int { return len(ds.Dates) }

func hasNaN(rf float64, vs ...float64) bool {
	if math.IsNaN(rf) {
		return true
	}
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
