package returns

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData is returned when a price series is too short to
// compute return statistics.
var ErrInsufficientData = errors.New("insufficient data: need at least 2 prices")

// Method selects the per-step return formula.
type Method int

const (
	// Simple computes (P[i] - P[i-1]) / P[i-1].
	Simple Method = iota
	// Log computes ln(P[i] / P[i-1]).
	Log
)

func (m Method) String() string {
	switch m {
	case Simple:
		return "simple"
	case Log:
		return "log"
	}
	return "unknown"
}

// ParseMethod maps a flag value to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "log":
		return Log, nil
	}
	return 0, fmt.Errorf("unknown return method %q (want simple or log)", s)
}

// Stats holds sample statistics of a return series.
type Stats struct {
	Mean float64
	Std  float64
	N    int
}

// Estimate computes per-step returns from a price series. The output has
// length len(prices)-1.
func Estimate(prices []float64, method Method) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	r := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if method == Log {
			r[i-1] = math.Log(prices[i] / prices[i-1])
		} else {
			r[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return r, nil
}

// Describe computes the sample mean and sample standard deviation
// (N-1 denominator) of a return series.
func Describe(r []float64) (Stats, error) {
	if len(r) < 1 {
		return Stats{}, ErrInsufficientData
	}
	mean, std := stat.MeanStdDev(r, nil)
	if len(r) == 1 {
		std = 0
	}
	return Stats{Mean: mean, Std: std, N: len(r)}, nil
}

// EstimateStats is the common fetch-side path: per-step returns plus their
// sample statistics in one call.
func EstimateStats(prices []float64, method Method) ([]float64, Stats, error) {
	r, err := Estimate(prices, method)
	if err != nil {
		return nil, Stats{}, err
	}
	s, err := Describe(r)
	if err != nil {
		return nil, Stats{}, err
	}
	return r, s, nil
}

// Annualize scales per-period statistics to a yearly horizon: the mean by
// periods, the standard deviation by sqrt(periods).
func Annualize(s Stats, periods float64) Stats {
	return Stats{
		Mean: s.Mean * periods,
		Std:  s.Std * math.Sqrt(periods),
		N:    s.N,
	}
}
