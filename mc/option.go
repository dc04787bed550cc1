package mc

import (
	"fmt"
	"math"
)

// Decision is the buy/skip heuristic emitted by the option pricer.
type Decision string

const (
	Enter Decision = "ENTER"
	Skip  Decision = "SKIP"
	Maybe Decision = "MAYBE"
)

// CallSpec describes a European call contract quoted at Premium.
type CallSpec struct {
	Strike  float64
	Premium float64
	// Rate is the continuously compounded risk-free rate used for
	// discounting over Expiry years.
	Rate   float64
	Expiry float64
}

// Thresholds are the decision cut-offs as fractions of the premium. They
// are configuration constants, never derived from the simulation.
type Thresholds struct {
	Enter float64
	Skip  float64
}

// DefaultThresholds mirror the cut-offs of the historical option script.
var DefaultThresholds = Thresholds{Enter: 0.05, Skip: 0.05}

// CallResult is the aggregated view of one pricing run.
type CallResult struct {
	FairValue     float64
	ProbITM       float64
	ExpectedValue float64
	Decision      Decision
}

// PriceCall reduces a path set to the call's discounted fair value, the
// in-the-money probability and the enter/skip signal.
func PriceCall(ps *PathSet, spec CallSpec, th Thresholds) (CallResult, error) {
	if spec.Strike <= 0 {
		return CallResult{}, fmt.Errorf("%w: strike %v", ErrInvalidParameter, spec.Strike)
	}
	if spec.Premium <= 0 {
		return CallResult{}, fmt.Errorf("%w: premium %v", ErrInvalidParameter, spec.Premium)
	}
	if spec.Expiry <= 0 {
		return CallResult{}, fmt.Errorf("%w: expiry %v", ErrInvalidParameter, spec.Expiry)
	}
	term := ps.Terminal()
	sum := 0.0
	itm := 0
	for _, st := range term {
		sum += math.Max(st-spec.Strike, 0)
		if st > spec.Strike {
			itm++
		}
	}
	disc := math.Exp(-spec.Rate * spec.Expiry)
	fair := disc * sum / float64(len(term))
	ev := fair - spec.Premium

	res := CallResult{
		FairValue:     fair,
		ProbITM:       float64(itm) / float64(len(term)),
		ExpectedValue: ev,
	}
	switch {
	case ev > th.Enter*spec.Premium:
		res.Decision = Enter
	case ev < -th.Skip*spec.Premium:
		res.Decision = Skip
	default:
		res.Decision = Maybe
	}
	return res, nil
}
