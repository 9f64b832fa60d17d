package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/driftguide/internal/sim"
)

// RMS is the root mean square of the measured guide error, skipping the
// first skip cycles while the loop settles.
type RMS struct {
	skip   int
	seen   int
	values []float64
}

func NewRMS(skip int) *RMS {
	return &RMS{skip: skip}
}

func (r *RMS) Name() string { return "rms" }

func (r *RMS) Observe(cy sim.Cycle) {
	r.seen++
	if r.seen <= r.skip {
		return
	}
	r.values = append(r.values, cy.Raw*cy.Raw)
}

func (r *RMS) Value() float64 {
	if len(r.values) == 0 {
		return 0
	}
	return math.Sqrt(stat.Mean(r.values, nil))
}

func (r *RMS) Reset() {
	r.seen = 0
	r.values = r.values[:0]
}

// StdDev is the sample standard deviation of the measured error.
type StdDev struct {
	values []float64
}

func NewStdDev() *StdDev { return &StdDev{} }

func (s *StdDev) Name() string { return "stddev" }

func (s *StdDev) Observe(cy sim.Cycle) { s.values = append(s.values, cy.Raw) }

func (s *StdDev) Value() float64 {
	if len(s.values) < 2 {
		return 0
	}
	return stat.StdDev(s.values, nil)
}

func (s *StdDev) Reset() { s.values = s.values[:0] }

// Peak is the largest absolute measured error.
type Peak struct {
	max float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(cy sim.Cycle) {
	if a := math.Abs(cy.Raw); a > p.max {
		p.max = a
	}
}

func (p *Peak) Value() float64 { return p.max }
func (p *Peak) Reset()         { p.max = 0 }

// DriftRate reports the last drift slope the guide algorithm estimated.
type DriftRate struct {
	rate float64
}

func NewDriftRate() *DriftRate { return &DriftRate{} }

func (d *DriftRate) Name() string { return "drift_rate" }

func (d *DriftRate) Observe(cy sim.Cycle) {
	if cy.DriftActive {
		d.rate = cy.DriftRate
	}
}

func (d *DriftRate) Value() float64 { return d.rate }
func (d *DriftRate) Reset()         { d.rate = 0 }

// Default returns the metrics recorded for every run.
func Default(settle int, threshold float64) []sim.Metric {
	return []sim.Metric{
		NewRMS(settle),
		NewStdDev(),
		NewPeak(),
		NewPercentile(90),
		NewStability(threshold),
		NewControlEffort(),
		NewDriftRate(),
	}
}
