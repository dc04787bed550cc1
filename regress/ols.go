// Package regress implements ordinary least squares with optional
// Newey-West (HAC) standard errors, used by the CAPM, Fama-French and
// event-study pipelines.
package regress

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrRankDeficient is returned when the design matrix cannot be inverted,
// either because there are fewer observations than coefficients or because
// the factor columns are collinear.
var ErrRankDeficient = errors.New("regression: rank-deficient design matrix")

// Result holds a fitted regression. Read-only once computed.
type Result struct {
	// Names has one entry per coefficient, Names[0] == "alpha".
	Names  []string
	Coef   []float64
	StdErr []float64
	TStat  []float64
	PValue []float64
	R2     float64
	N      int
	DF     int
	// Resid are the in-sample residuals, one per observation.
	Resid []float64
	// ResidStd is the residual standard deviation sqrt(RSS/DF).
	ResidStd float64
	// HACLags records the Newey-West lag used for the covariance, 0 for
	// plain OLS errors.
	HACLags int
}

// Options controls the covariance estimator.
type Options struct {
	// HACLags > 0 switches standard errors to the Newey-West estimator
	// with that many lags.
	HACLags int
}

// Fit regresses y on the given factor columns plus an intercept.
// factors[k] is the k-th regressor column; all columns must have len(y)
// observations.
func Fit(y []float64, factorNames []string, factors [][]float64, opts Options) (*Result, error) {
	n := len(y)
	p := len(factors) + 1
	if n == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrRankDeficient)
	}
	if n <= p {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", ErrRankDeficient, n, p)
	}
	for k, col := range factors {
		if len(col) != n {
			return nil, fmt.Errorf("regression: factor %q has %d rows, want %d", factorNames[k], len(col), n)
		}
	}

	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1.0)
	}
	for k, col := range factors {
		x.SetCol(k+1, col)
	}

	// Rank check via SVD before solving.
	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDNone); !ok {
		return nil, ErrRankDeficient
	}
	sv := svd.Values(nil)
	if sv[len(sv)-1] <= 1e-10*sv[0] {
		return nil, fmt.Errorf("%w: collinear factor columns", ErrRankDeficient)
	}

	yv := mat.NewVecDense(n, y)
	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, yv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankDeficient, err)
	}

	// Residuals and fit quality.
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(x, beta)
	resid := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		resid[i] = y[i] - fitted.AtVec(i)
		rss += resid[i] * resid[i]
	}
	ymean := stat.Mean(y, nil)
	tss := 0.0
	for i := 0; i < n; i++ {
		d := y[i] - ymean
		tss += d * d
	}
	r2 := 0.0
	if tss > 0 {
		r2 = 1.0 - rss/tss
	}
	df := n - p

	var xtxInv mat.Dense
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRankDeficient, err)
	}

	var cov *mat.Dense
	if opts.HACLags > 0 {
		cov = hacCov(x, resid, &xtxInv, opts.HACLags)
	} else {
		sigma2 := rss / float64(df)
		cov = mat.NewDense(p, p, nil)
		cov.Scale(sigma2, &xtxInv)
	}

	res := &Result{
		Names:    append([]string{"alpha"}, factorNames...),
		Coef:     make([]float64, p),
		StdErr:   make([]float64, p),
		TStat:    make([]float64, p),
		PValue:   make([]float64, p),
		R2:       r2,
		N:        n,
		DF:       df,
		Resid:    resid,
		ResidStd: math.Sqrt(rss / float64(df)),
		HACLags:  opts.HACLags,
	}
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	for j := 0; j < p; j++ {
		res.Coef[j] = beta.AtVec(j)
		res.StdErr[j] = math.Sqrt(cov.At(j, j))
		if res.StdErr[j] > 0 {
			res.TStat[j] = res.Coef[j] / res.StdErr[j]
			res.PValue[j] = 2.0 * tdist.CDF(-math.Abs(res.TStat[j]))
		} else {
			res.PValue[j] = math.NaN()
		}
	}
	return res, nil
}

// Predict evaluates the fitted line for one observation of the factors.
func (r *Result) Predict(factors []float64) float64 {
	out := r.Coef[0]
	for k, f := range factors {
		out += r.Coef[k+1] * f
	}
	return out
}

// hacCov computes the Newey-West sandwich covariance
// (X'X)^-1 S (X'X)^-1 with Bartlett kernel weights w_l = 1 - l/(L+1).
func hacCov(x *mat.Dense, resid []float64, xtxInv *mat.Dense, lags int) *mat.Dense {
	n, p := x.Dims()
	s := mat.NewDense(p, p, nil)

	xi := mat.NewVecDense(p, nil)
	xj := mat.NewVecDense(p, nil)
	outer := mat.NewDense(p, p, nil)

	// Lag 0 term.
	for t := 0; t < n; t++ {
		mat.Row(xi.RawVector().Data, t, x)
		outer.Outer(resid[t]*resid[t], xi, xi)
		s.Add(s, outer)
	}
	// Autocovariance terms, symmetrized.
	for l := 1; l <= lags && l < n; l++ {
		w := 1.0 - float64(l)/float64(lags+1)
		for t := l; t < n; t++ {
			mat.Row(xi.RawVector().Data, t, x)
			mat.Row(xj.RawVector().Data, t-l, x)
			outer.Outer(w*resid[t]*resid[t-l], xi, xj)
			s.Add(s, outer)
			outer.Outer(w*resid[t]*resid[t-l], xj, xi)
			s.Add(s, outer)
		}
	}

	var tmp, cov mat.Dense
	tmp.Mul(xtxInv, s)
	cov.Mul(&tmp, xtxInv)
	out := mat.NewDense(p, p, nil)
	out.Copy(&cov)
	return out
}
