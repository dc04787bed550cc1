package mc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TerminalSummary describes the distribution of terminal prices.
type TerminalSummary struct {
	Mean  float64
	Std   float64
	Probs []float64
	// Quantiles[i] is the empirical Probs[i] quantile of the terminal
	// prices.
	Quantiles []float64
}

// Histogram is a plot-ready binned view of the terminal prices. Edges has
// len(Counts)+1 entries.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// Summarize reduces the terminal column to mean, std and the requested
// quantiles.
func Summarize(ps *PathSet, probs []float64) TerminalSummary {
	term := ps.Terminal()
	sort.Float64s(term)
	mean, std := stat.MeanStdDev(term, nil)
	qs := make([]float64, len(probs))
	for i, p := range probs {
		qs[i] = stat.Quantile(p, stat.Empirical, term, nil)
	}
	return TerminalSummary{Mean: mean, Std: std, Probs: probs, Quantiles: qs}
}

// Bands computes, for each time step, the requested quantiles over paths.
// The result has one row per quantile and Steps+1 columns, ready for a
// charting sink.
func Bands(ps *PathSet, probs []float64) [][]float64 {
	out := make([][]float64, len(probs))
	for i := range out {
		out[i] = make([]float64, ps.Steps+1)
	}
	col := make([]float64, len(ps.M))
	for t := 0; t <= ps.Steps; t++ {
		for i, row := range ps.M {
			col[i] = row[t]
		}
		sort.Float64s(col)
		for i, p := range probs {
			out[i][t] = stat.Quantile(p, stat.Empirical, col, nil)
		}
	}
	return out
}

// Bin builds an equal-width histogram of the terminal prices.
func Bin(ps *PathSet, bins int) (Histogram, error) {
	if bins <= 0 {
		return Histogram{}, fmt.Errorf("%w: bins %d", ErrInvalidParameter, bins)
	}
	term := ps.Terminal()
	sort.Float64s(term)
	lo, hi := term[0], term[len(term)-1]
	if hi == lo {
		hi = lo + 1
	}
	edges := make([]float64, bins+1)
	w := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*w
	}
	// stat.Histogram needs samples strictly below the last divider.
	edges[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, edges, term, nil)
	return Histogram{Edges: edges, Counts: counts}, nil
}

// VaR returns the loss relative to S0 that is not exceeded with the given
// confidence, i.e. the confidence-quantile of S0 - terminal. The
// confidence must lie strictly between 0 and 1.
func VaR(ps *PathSet, confidence float64) (float64, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence %v", ErrInvalidParameter, confidence)
	}
	term := ps.Terminal()
	losses := make([]float64, len(term))
	for i, v := range term {
		losses[i] = ps.S0 - v
	}
	sort.Float64s(losses)
	return stat.Quantile(confidence, stat.Empirical, losses, nil), nil
}
