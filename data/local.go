package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Local reads the fallback CSV files: a per-symbol price file with columns
// Date,Adj Close and a factor file with columns Date,Mkt-RF,SMB,HML,RF.
type Local struct {
	// PricesPath is the price CSV. When empty, <Dir>/<symbol>.csv is used.
	PricesPath  string
	FactorsPath string
	Dir         string
}

func (l Local) pricesFile(symbol string) string {
	if l.PricesPath != "" {
		return l.PricesPath
	}
	return fmt.Sprintf("%s/%s.csv", l.Dir, strings.ToLower(symbol))
}

func (l Local) Prices(symbol string, start, end time.Time) (PriceSeries, error) {
	path := l.pricesFile(symbol)
	f, err := os.Open(path)
	if err != nil {
		return PriceSeries{}, fmt.Errorf("local prices: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	header, err := rd.Read()
	if err != nil {
		return PriceSeries{}, fmt.Errorf("local prices %s: %w", path, err)
	}
	dateIdx, pxIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Date":
			dateIdx = i
		case "Adj Close", "Adj_Close", "Close":
			if pxIdx < 0 || strings.HasPrefix(strings.TrimSpace(h), "Adj") {
				pxIdx = i
			}
		}
	}
	if dateIdx < 0 || pxIdx < 0 {
		return PriceSeries{}, fmt.Errorf("local prices %s: need Date and Adj Close columns", path)
	}

	var points []PricePoint
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return PriceSeries{}, fmt.Errorf("local prices %s: %w", path, err)
		}
		d, err := time.Parse(Layout, strings.TrimSpace(rec[dateIdx]))
		if err != nil {
			return PriceSeries{}, fmt.Errorf("local prices %s: %w", path, err)
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		px, err := strconv.ParseFloat(strings.TrimSpace(rec[pxIdx]), 64)
		if err != nil {
			continue // missing value, dropped
		}
		points = append(points, PricePoint{Date: d, Price: px})
	}
	series := PriceSeries{Symbol: symbol, Points: sortPoints(points)}
	if err := series.Validate(); err != nil {
		return PriceSeries{}, err
	}
	return series, nil
}

func (l Local) Factors(start, end time.Time) (FactorTable, error) {
	path := l.FactorsPath
	if path == "" {
		path = l.Dir + "/ff_factors.csv"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("local factors: %w", err)
	}
	defer f.Close()

	table, err := parseFactorCSV(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("local factors %s: %w", path, err)
	}
	return table.NormalizeScale().Between(start, end), nil
}

// parseFactorCSV reads rows of Date,Mkt-RF,SMB,HML,RF. Dates are accepted
// as YYYY-MM-DD or YYYYMMDD (the Ken French library format). Unparseable
// numeric fields become NaN and are dropped at join time.
func parseFactorCSV(rd *csv.Reader) (FactorTable, error) {
	rd.TrimLeadingSpace = true
	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("factor csv: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{"Date", "Mkt-RF", "SMB", "HML", "RF"} {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("factor csv: missing column %q", want)
		}
	}

	num := func(rec []string, col string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[col]]), 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	var table FactorTable
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("factor csv: %w", err)
		}
		raw := strings.TrimSpace(rec[idx["Date"]])
		d, err := time.Parse(Layout, raw)
		if err != nil {
			d, err = time.Parse("20060102", raw)
			if err != nil {
				continue
			}
		}
		table = append(table, FactorRow{
			Date:  d,
			MktRF: num(rec, "Mkt-RF"),
			SMB:   num(rec, "SMB"),
			HML:   num(rec, "HML"),
			RF:    num(rec, "RF"),
		})
	}
	return table, nil
}
