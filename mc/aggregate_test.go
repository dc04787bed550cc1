package mc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedPathSet(s0 float64, terminals []float64) *PathSet {
	m := make([][]float64, len(terminals))
	for i, v := range terminals {
		m[i] = []float64{s0, v}
	}
	return &PathSet{S0: s0, Dt: 1, Steps: 1, M: m}
}

func TestSummarize(t *testing.T) {
	ps := fixedPathSet(100, []float64{90, 100, 110, 120})
	s := Summarize(ps, []float64{0.5})
	require.InDelta(t, 105.0, s.Mean, 1e-12)
	require.Len(t, s.Quantiles, 1)
	require.GreaterOrEqual(t, s.Quantiles[0], 90.0)
	require.LessOrEqual(t, s.Quantiles[0], 120.0)
}

func TestVaR(t *testing.T) {
	// Losses relative to 100: 30, 20, 10, 0, -10 (a gain).
	ps := fixedPathSet(100, []float64{70, 80, 90, 100, 110})
	v, err := VaR(ps, 0.95)
	require.NoError(t, err)
	require.InDelta(t, 30.0, v, 1e-12)

	// Higher confidence never lowers the loss threshold.
	lo, err := VaR(ps, 0.90)
	require.NoError(t, err)
	hi, err := VaR(ps, 0.99)
	require.NoError(t, err)
	require.GreaterOrEqual(t, hi, lo)
}

func TestVaRConfidenceBounds(t *testing.T) {
	ps := fixedPathSet(100, []float64{70, 80, 90, 100, 110})
	for _, c := range []float64{-0.1, 0, 1, 1.5} {
		_, err := VaR(ps, c)
		require.ErrorIs(t, err, ErrInvalidParameter, "confidence %v", c)
	}
}

func TestBin(t *testing.T) {
	ps := fixedPathSet(100, []float64{90, 95, 100, 105, 110, 115})
	h, err := Bin(ps, 5)
	require.NoError(t, err)
	require.Len(t, h.Edges, 6)
	require.Len(t, h.Counts, 5)
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	require.InDelta(t, 6.0, total, 1e-12)
}

func TestBinRejectsBadBinCount(t *testing.T) {
	ps := fixedPathSet(100, []float64{90, 110})
	for _, bins := range []int{0, -3} {
		_, err := Bin(ps, bins)
		require.ErrorIs(t, err, ErrInvalidParameter, "bins %d", bins)
	}
}

func TestBands(t *testing.T) {
	p := Params{S0: 100, Mu: 0.05, Sigma: 0.2, Horizon: 1, Steps: 12, Paths: 500, Seed: u64(21)}
	ps, err := Simulate(p)
	require.NoError(t, err)
	bands := Bands(ps, []float64{0.05, 0.5, 0.95})
	require.Len(t, bands, 3)
	for _, b := range bands {
		require.Len(t, b, 13)
	}
	for tstep := 0; tstep <= 12; tstep++ {
		require.LessOrEqual(t, bands[0][tstep], bands[1][tstep])
		require.LessOrEqual(t, bands[1][tstep], bands[2][tstep])
	}
}

func TestProbITMIncreasesWithDrift(t *testing.T) {
	price := func(mu float64) float64 {
		p := Params{S0: 100, Mu: mu, Sigma: 0.2, Horizon: 1, Steps: 25, Paths: 20000, Seed: u64(5)}
		ps, err := Simulate(p)
		require.NoError(t, err)
		res, err := PriceCall(ps, CallSpec{Strike: 105, Premium: 2, Rate: 0.02, Expiry: 1}, DefaultThresholds)
		require.NoError(t, err)
		return res.ProbITM
	}
	low := price(0.00)
	high := price(0.15)
	require.Greater(t, high, low)
}

func TestPriceCallDeepOTM(t *testing.T) {
	p := Params{S0: 100, Mu: 0.05, Sigma: 0.2, Horizon: 1, Steps: 25, Paths: 5000, Seed: u64(8)}
	ps, err := Simulate(p)
	require.NoError(t, err)
	res, err := PriceCall(ps, CallSpec{Strike: 1e6, Premium: 1, Rate: 0.02, Expiry: 1}, DefaultThresholds)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.ProbITM)
	require.Equal(t, 0.0, res.FairValue)
	require.Equal(t, Skip, res.Decision)
	require.InDelta(t, -1.0, res.ExpectedValue, 1e-12)
}

func TestPriceCallDecisionBands(t *testing.T) {
	ps := fixedPathSet(100, []float64{120, 120, 120, 120})
	// Fair value with zero rate is 20; premium 10 gives EV 10 -> ENTER.
	res, err := PriceCall(ps, CallSpec{Strike: 100, Premium: 10, Rate: 0, Expiry: 1}, DefaultThresholds)
	require.NoError(t, err)
	require.Equal(t, Enter, res.Decision)

	// Premium equal to fair value sits inside the MAYBE band.
	res, err = PriceCall(ps, CallSpec{Strike: 100, Premium: 20, Rate: 0, Expiry: 1}, DefaultThresholds)
	require.NoError(t, err)
	require.Equal(t, Maybe, res.Decision)

	res, err = PriceCall(ps, CallSpec{Strike: 100, Premium: 40, Rate: 0, Expiry: 1}, DefaultThresholds)
	require.NoError(t, err)
	require.Equal(t, Skip, res.Decision)
}

func TestPriceCallInvalidSpec(t *testing.T) {
	ps := fixedPathSet(100, []float64{110})
	_, err := PriceCall(ps, CallSpec{Strike: 0, Premium: 1, Expiry: 1}, DefaultThresholds)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = PriceCall(ps, CallSpec{Strike: 100, Premium: 1, Expiry: 0}, DefaultThresholds)
	require.ErrorIs(t, err, ErrInvalidParameter)

	// A non-positive premium collapses the decision bands, so it is
	// rejected up front.
	_, err = PriceCall(ps, CallSpec{Strike: 100, Premium: 0, Expiry: 1}, DefaultThresholds)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = PriceCall(ps, CallSpec{Strike: 100, Premium: -2, Expiry: 1}, DefaultThresholds)
	require.ErrorIs(t, err, ErrInvalidParameter)
}
