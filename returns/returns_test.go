package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateSimple(t *testing.T) {
	prices := []float64{100, 102, 101, 105}
	r, err := Estimate(prices, Simple)
	require.NoError(t, err)
	require.Len(t, r, 3)

	want := []float64{0.02, -1.0 / 102.0, 4.0 / 101.0}
	for i := range want {
		require.InDelta(t, want[i], r[i], 1e-12)
	}

	s, err := Describe(r)
	require.NoError(t, err)
	require.InDelta(t, (want[0]+want[1]+want[2])/3.0, s.Mean, 1e-12)
	require.InDelta(t, 0.0099, s.Mean, 5e-4)
	require.Equal(t, 3, s.N)

	// N-1 denominator
	var ss float64
	for _, v := range want {
		ss += (v - s.Mean) * (v - s.Mean)
	}
	require.InDelta(t, math.Sqrt(ss/2.0), s.Std, 1e-12)
}

func TestEstimateLog(t *testing.T) {
	prices := []float64{100, 110}
	r, err := Estimate(prices, Log)
	require.NoError(t, err)
	require.InDelta(t, math.Log(1.1), r[0], 1e-12)
}

func TestEstimateShortSeries(t *testing.T) {
	for _, prices := range [][]float64{nil, {}, {100}} {
		_, err := Estimate(prices, Simple)
		require.ErrorIs(t, err, ErrInsufficientData)
	}
}

func TestAnnualize(t *testing.T) {
	s := Stats{Mean: 0.001, Std: 0.02, N: 500}
	a := Annualize(s, 252)
	require.InDelta(t, 0.252, a.Mean, 1e-12)
	require.InDelta(t, 0.02*math.Sqrt(252), a.Std, 1e-12)
	require.Equal(t, 500, a.N)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("log")
	require.NoError(t, err)
	require.Equal(t, Log, m)

	_, err = ParseMethod("exotic")
	require.Error(t, err)
}
