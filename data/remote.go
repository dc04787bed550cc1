package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Alpha Vantage response shapes for the daily adjusted series.
type alphaDay struct {
	AdjClose string `json:"5. adjusted close"`
	Close    string `json:"4. close"`
}

type alphaSeries struct {
	Note string              `json:"Note"`
	Err  string              `json:"Error Message"`
	Hist map[string]alphaDay `json:"Time Series (Daily)"`
}

// Remote fetches prices from Alpha Vantage and factors from a CSV endpoint
// with columns Date,Mkt-RF,SMB,HML,RF.
type Remote struct {
	Client *http.Client
	// APIKey falls back to the ALPHAVANTAGE_API_KEY environment variable.
	APIKey string
	// FactorsURL serves the Fama-French daily factor CSV.
	FactorsURL string
	// BaseURL overrides the Alpha Vantage endpoint, used in tests.
	BaseURL string
}

const alphaVantageURL = "https://www.alphavantage.co/query"

// NewRemote builds a remote provider with a sane timeout.
func NewRemote(apiKey, factorsURL string) *Remote {
	return &Remote{
		Client:     &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		FactorsURL: factorsURL,
	}
}

func (r *Remote) key() string {
	if r.APIKey != "" {
		return r.APIKey
	}
	return os.Getenv("ALPHAVANTAGE_API_KEY")
}

func (r *Remote) base() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return alphaVantageURL
}

func (r *Remote) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// Prices downloads the full daily adjusted history and narrows it to the
// requested range.
func (r *Remote) Prices(symbol string, start, end time.Time) (PriceSeries, error) {
	req, err := http.NewRequest("GET", r.base(), nil)
	if err != nil {
		return PriceSeries{}, err
	}
	q := req.URL.Query()
	q.Add("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Add("symbol", symbol)
	q.Add("outputsize", "full")
	q.Add("apikey", r.key())
	req.URL.RawQuery = q.Encode()

	resp, err := r.client().Do(req)
	if err != nil {
		return PriceSeries{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PriceSeries{}, fmt.Errorf("fetch %s: status %s", symbol, resp.Status)
	}

	var payload alphaSeries
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return PriceSeries{}, fmt.Errorf("decode %s: %w", symbol, err)
	}
	if payload.Err != "" {
		return PriceSeries{}, fmt.Errorf("fetch %s: %s", symbol, payload.Err)
	}
	if len(payload.Hist) == 0 {
		msg := payload.Note
		if msg == "" {
			msg = "empty time series"
		}
		return PriceSeries{}, fmt.Errorf("fetch %s: %s", symbol, msg)
	}

	var points []PricePoint
	for ds, day := range payload.Hist {
		d, err := time.Parse(Layout, ds)
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		raw := day.AdjClose
		if raw == "" {
			raw = day.Close
		}
		px, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		points = append(points, PricePoint{Date: d, Price: px})
	}
	if len(points) == 0 {
		return PriceSeries{}, fmt.Errorf("fetch %s: no data between %s and %s",
			symbol, start.Format(Layout), end.Format(Layout))
	}
	series := PriceSeries{Symbol: symbol, Points: sortPoints(points)}
	if err := series.Validate(); err != nil {
		return PriceSeries{}, err
	}
	return series, nil
}

// Factors downloads and parses the factor CSV.
func (r *Remote) Factors(start, end time.Time) (FactorTable, error) {
	if r.FactorsURL == "" {
		return nil, fmt.Errorf("factors: no remote endpoint configured")
	}
	resp, err := r.client().Get(r.FactorsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch factors: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch factors: status %s", resp.Status)
	}
	table, err := parseFactorCSV(csv.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	return table.NormalizeScale().Between(start, end), nil
}
