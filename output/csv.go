// Package output writes summary tables and plot-ready series as CSV files.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/KRupuwu/Financial-Models/eventstudy"
	"github.com/KRupuwu/Financial-Models/mc"
	"github.com/KRupuwu/Financial-Models/regress"
)

const dateLayout = "2006-01-02"

// WriteTable writes a header row plus one row per entity.
func WriteTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteRegression writes one row per coefficient plus fit statistics.
func WriteRegression(path string, res *regress.Result) error {
	header := []string{"coef", "estimate", "std_err", "t_stat", "p_value"}
	var rows [][]string
	for i, name := range res.Names {
		rows = append(rows, []string{
			name, ftoa(res.Coef[i]), ftoa(res.StdErr[i]), ftoa(res.TStat[i]), ftoa(res.PValue[i]),
		})
	}
	rows = append(rows,
		[]string{"r2", ftoa(res.R2), "", "", ""},
		[]string{"n_obs", strconv.Itoa(res.N), "", "", ""},
		[]string{"hac_lags", strconv.Itoa(res.HACLags), "", "", ""},
	)
	return WriteTable(path, header, rows)
}

// WriteBands writes the per-step quantile bands, one column per quantile.
func WriteBands(path string, probs []float64, bands [][]float64) error {
	header := []string{"step"}
	for _, p := range probs {
		header = append(header, fmt.Sprintf("p%02.0f", p*100))
	}
	steps := len(bands[0])
	rows := make([][]string, steps)
	for t := 0; t < steps; t++ {
		row := []string{strconv.Itoa(t)}
		for _, b := range bands {
			row = append(row, ftoa(b[t]))
		}
		rows[t] = row
	}
	return WriteTable(path, header, rows)
}

// WriteHistogram writes bin edges and counts.
func WriteHistogram(path string, h mc.Histogram) error {
	rows := make([][]string, len(h.Counts))
	for i := range h.Counts {
		rows[i] = []string{ftoa(h.Edges[i]), ftoa(h.Edges[i+1]), ftoa(h.Counts[i])}
	}
	return WriteTable(path, []string{"bin_lo", "bin_hi", "count"}, rows)
}

// WriteStudy writes the AR/CAR time series with confidence bands.
func WriteStudy(path string, study *eventstudy.Study) error {
	header := []string{"date", "ar", "ar_lo", "ar_hi", "car", "car_lo", "car_hi"}
	rows := make([][]string, len(study.Points))
	for i, p := range study.Points {
		rows[i] = []string{
			p.Date.Format(dateLayout),
			ftoa(p.AR), ftoa(p.ARLo), ftoa(p.ARHi),
			ftoa(p.CAR), ftoa(p.CARLo), ftoa(p.CARHi),
		}
	}
	return WriteTable(path, header, rows)
}

// WriteMerged writes the regression dataset: date, excess return and the
// factor columns, mirroring the report the historical FF3 script saved.
func WriteMerged(path string, dates []time.Time, excess []float64, names []string, cols [][]float64) error {
	header := append([]string{"date", "excess_ret"}, names...)
	rows := make([][]string, len(dates))
	for i := range dates {
		row := []string{dates[i].Format(dateLayout), ftoa(excess[i])}
		for _, c := range cols {
			row = append(row, ftoa(c[i]))
		}
		rows[i] = row
	}
	return WriteTable(path, header, rows)
}
