// Package mc simulates Geometric Brownian Motion price paths and reduces
// them to the summary statistics used by the CLI pipelines.
package mc

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned for non-positive steps, paths, horizon or
// initial price, or a negative volatility.
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// Scheme selects the discretisation formula. The historical scripts used
// both inconsistently, so both are exposed as named options.
type Scheme int

const (
	// LogGBM updates P(t+1) = P(t) * exp((mu - sigma^2/2)dt + sigma*sqrt(dt)*z).
	LogGBM Scheme = iota
	// SimpleGBM updates P(t+1) = P(t) * (1 + mu*dt + sigma*sqrt(dt)*z).
	SimpleGBM
)

func (s Scheme) String() string {
	switch s {
	case LogGBM:
		return "log"
	case SimpleGBM:
		return "simple"
	}
	return "unknown"
}

// ParseScheme maps a flag value to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "log":
		return LogGBM, nil
	case "simple":
		return SimpleGBM, nil
	}
	return 0, fmt.Errorf("unknown scheme %q (want log or simple)", s)
}

// Params are the immutable inputs of one simulation run. Mu and Sigma are
// annualized; Horizon is in years.
type Params struct {
	S0      float64
	Mu      float64
	Sigma   float64
	Horizon float64
	Steps   int
	Paths   int
	Scheme  Scheme
	// Seed makes the run reproducible. Nil draws a seed from the clock.
	Seed *uint64
}

func (p Params) validate() error {
	switch {
	case p.Steps <= 0:
		return fmt.Errorf("%w: steps %d", ErrInvalidParameter, p.Steps)
	case p.Paths <= 0:
		return fmt.Errorf("%w: paths %d", ErrInvalidParameter, p.Paths)
	case p.Sigma < 0:
		return fmt.Errorf("%w: sigma %v", ErrInvalidParameter, p.Sigma)
	case p.Horizon <= 0:
		return fmt.Errorf("%w: horizon %v", ErrInvalidParameter, p.Horizon)
	case p.S0 <= 0:
		return fmt.Errorf("%w: initial price %v", ErrInvalidParameter, p.S0)
	}
	return nil
}

// PathSet holds the simulated trajectories: Paths rows of Steps+1 prices,
// column 0 is S0 for every row.
type PathSet struct {
	S0    float64
	Dt    float64
	Steps int
	M     [][]float64
}

// Terminal returns the last column of the path matrix.
func (ps *PathSet) Terminal() []float64 {
	out := make([]float64, len(ps.M))
	for i, row := range ps.M {
		out[i] = row[len(row)-1]
	}
	return out
}

// Simulate generates Params.Paths independent trajectories. Each run owns
// its generator, so concurrent runs never share RNG state.
func Simulate(p Params) (*PathSet, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	seed := uint64(time.Now().UnixNano())
	if p.Seed != nil {
		seed = *p.Seed
	}
	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)}

	dt := p.Horizon / float64(p.Steps)
	// Pre compute the per-step constants of the update rule.
	drift := (p.Mu - 0.5*p.Sigma*p.Sigma) * dt
	vol := p.Sigma * math.Sqrt(dt)

	m := make([][]float64, p.Paths)
	for i := range m {
		row := make([]float64, p.Steps+1)
		row[0] = p.S0
		for t := 0; t < p.Steps; t++ {
			z := d.Rand()
			if p.Scheme == LogGBM {
				row[t+1] = row[t] * math.Exp(drift+vol*z)
			} else {
				row[t+1] = row[t] * (1.0 + p.Mu*dt + vol*z)
			}
		}
		m[i] = row
	}
	return &PathSet{S0: p.S0, Dt: dt, Steps: p.Steps, M: m}, nil
}
