// Package eventstudy measures abnormal returns around an event date using
// a factor model fitted over a pre-event estimation window.
package eventstudy

import (
	"fmt"
	"math"
	"time"

	"github.com/KRupuwu/Financial-Models/factors"
	"github.com/KRupuwu/Financial-Models/regress"
	"github.com/KRupuwu/Financial-Models/returns"
)

// Config describes the study windows in trading days. The estimation
// window of EstDays observations ends immediately before the event window
// [event-Pre, event+Post].
type Config struct {
	EstDays int
	Pre     int
	Post    int
	// Z is the normal critical value for the confidence bands; 0 means
	// the default 1.96 (95%).
	Z       float64
	HACLags int
}

// Point is one event-window day: abnormal return, its running sum and the
// confidence bands for both.
type Point struct {
	Date  time.Time
	AR    float64
	CAR   float64
	ARLo  float64
	ARHi  float64
	CARLo float64
	CARHi float64
}

// Study is a completed event study.
type Study struct {
	// Reg is the estimation-window factor regression.
	Reg    *regress.Result
	Points []Point
}

// Run locates the event date in the dataset, fits the factor model over
// the estimation window and computes AR/CAR with confidence bands over the
// event window. The AR band is +/- z*s with s the regression residual std;
// the CAR band at day k widens to +/- z*s*sqrt(k+1).
func Run(ds *factors.Dataset, eventDate time.Time, cfg Config) (*Study, error) {
	if cfg.EstDays < 2 {
		return nil, fmt.Errorf("%w: estimation window of %d days", returns.ErrInsufficientData, cfg.EstDays)
	}
	z := cfg.Z
	if z == 0 {
		z = 1.96
	}

	idx := -1
	for i, d := range ds.Dates {
		if !d.Before(eventDate) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("event date %s after the end of the sample", eventDate.Format("2006-01-02"))
	}

	lo := idx - cfg.Pre
	hi := idx + cfg.Post
	if lo-cfg.EstDays < 0 || hi >= ds.Len() {
		return nil, fmt.Errorf("%w: need %d estimation + [%d,%d] event days around %s",
			returns.ErrInsufficientData, cfg.EstDays, cfg.Pre, cfg.Post, eventDate.Format("2006-01-02"))
	}

	est := ds.Slice(lo-cfg.EstDays, lo)
	reg, err := est.Fit(regress.Options{HACLags: cfg.HACLags})
	if err != nil {
		return nil, err
	}

	s := reg.ResidStd
	study := &Study{Reg: reg}
	car := 0.0
	for i := lo; i <= hi; i++ {
		ar := ds.Excess[i] - reg.Predict(ds.Row(i))
		car += ar
		k := float64(i - lo)
		carBand := z * s * math.Sqrt(k+1)
		study.Points = append(study.Points, Point{
			Date:  ds.Dates[i],
			AR:    ar,
			CAR:   car,
			ARLo:  ar - z*s,
			ARHi:  ar + z*s,
			CARLo: car - carBand,
			CARHi: car + carBand,
		})
	}
	return study, nil
}
