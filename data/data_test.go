package data

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(Layout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLocalPrices(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "asset_prices.csv",
		"Date,Adj Close\n2023-01-03,100.0\n2023-01-04,102.0\n2023-01-05,\n2023-01-06,101.5\n")

	l := Local{PricesPath: path}
	s, err := l.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Equal(t, "AAPL", s.Symbol)
	// The empty close on 01-05 is dropped.
	require.Equal(t, []float64{100.0, 102.0, 101.5}, s.Prices())
	require.NoError(t, s.Validate())

	// Range filter.
	s, err = l.Prices("AAPL", day("2023-01-04"), day("2023-01-04"))
	require.NoError(t, err)
	require.Len(t, s.Points, 1)
}

func TestLocalPricesMissingFile(t *testing.T) {
	l := Local{PricesPath: "/nonexistent/prices.csv"}
	_, err := l.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.Error(t, err)
}

func TestLocalFactorsDecimal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff_factors.csv",
		"Date,Mkt-RF,SMB,HML,RF\n2023-01-03,0.011,0.002,-0.001,0.0001\n2023-01-04,-0.004,0.001,0.003,0.0001\n")

	l := Local{FactorsPath: path}
	tab, err := l.Factors(day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, tab, 2)
	require.InDelta(t, 0.011, tab[0].MktRF, 1e-12)
}

func TestLocalFactorsPercentScaled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff_factors.csv",
		"Date,Mkt-RF,SMB,HML,RF\n20230103,1.10,0.20,-0.10,0.01\n20230104,-0.40,0.10,0.30,0.01\n")

	l := Local{FactorsPath: path}
	tab, err := l.Factors(day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, tab, 2)
	require.InDelta(t, 0.011, tab[0].MktRF, 1e-12)
	require.InDelta(t, 0.0001, tab[0].RF, 1e-12)
}

func TestFactorCSVMissingValuesBecomeNaN(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ff_factors.csv",
		"Date,Mkt-RF,SMB,HML,RF\n2023-01-03,0.01,,0.002,0.0001\n")
	l := Local{FactorsPath: path}
	tab, err := l.Factors(day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.True(t, math.IsNaN(tab[0].SMB))
}

func TestRemotePrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, `{"Time Series (Daily)": {
			"2023-01-04": {"4. close": "102.0", "5. adjusted close": "101.0"},
			"2023-01-03": {"4. close": "100.0", "5. adjusted close": "99.5"},
			"2022-12-01": {"4. close": "95.0", "5. adjusted close": "94.0"}
		}}`)
	}))
	defer srv.Close()

	r := &Remote{BaseURL: srv.URL, APIKey: "demo", Client: srv.Client()}
	s, err := r.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Equal(t, []float64{99.5, 101.0}, s.Prices())
	require.True(t, s.Points[0].Date.Before(s.Points[1].Date))
}

func TestRemotePricesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Error Message": "Invalid API call"}`)
	}))
	defer srv.Close()

	r := &Remote{BaseURL: srv.URL, APIKey: "demo", Client: srv.Client()}
	_, err := r.Prices("ZZZZ", day("2023-01-01"), day("2023-12-31"))
	require.Error(t, err)
}

func TestChainFallsBackOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "asset_prices.csv",
		"Date,Adj Close\n2023-01-03,100.0\n2023-01-04,102.0\n")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := Chain{
		Primary:  &Remote{BaseURL: srv.URL, APIKey: "demo", Client: srv.Client()},
		Fallback: Local{PricesPath: path},
	}
	s, err := c.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
}

func TestChainBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := Chain{
		Primary:  &Remote{BaseURL: srv.URL, APIKey: "demo", Client: srv.Client()},
		Fallback: Local{PricesPath: "/nonexistent/prices.csv"},
	}
	_, err := c.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNormalizeScaleIdempotentOnDecimals(t *testing.T) {
	tab := FactorTable{
		{Date: day("2023-01-03"), MktRF: 0.01, SMB: 0.002, HML: -0.001, RF: 0.0001},
	}
	out := tab.NormalizeScale()
	require.InDelta(t, 0.01, out[0].MktRF, 1e-12)
}

func TestCachePrices(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "asset_prices.csv",
		"Date,Adj Close\n2023-01-03,100.0\n2023-01-04,102.0\n2023-01-05,104.0\n")

	cache, err := NewCache(filepath.Join(dir, "cache.db"), Local{PricesPath: path})
	require.NoError(t, err)
	defer cache.Close()

	s1, err := cache.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, s1.Points, 3)

	// Second read is served from sqlite even if the file disappears.
	require.NoError(t, os.Remove(path))
	s2, err := cache.Prices("AAPL", day("2023-01-01"), day("2023-12-31"))
	require.NoError(t, err)
	require.Equal(t, s1.Prices(), s2.Prices())
}

func TestSortPointsDeduplicates(t *testing.T) {
	points := []PricePoint{
		{Date: day("2023-01-04"), Price: 2},
		{Date: day("2023-01-03"), Price: 1},
		{Date: day("2023-01-04"), Price: 3},
	}
	out := sortPoints(points)
	require.Len(t, out, 2)
	require.Equal(t, 1.0, out[0].Price)
	require.Equal(t, 3.0, out[1].Price)
}
