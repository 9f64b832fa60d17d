package metrics

import (
	"fmt"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/san-kum/driftguide/internal/sim"
)

const (
	// errors are recorded in units of 1/resolution
	resolution   = 10000
	highestError = 1e4 * resolution
)

// Percentile is a quantile of the absolute measured error, e.g. 90 for the
// error 90% of cycles stay within.
type Percentile struct {
	quantile float64
	hist     *hdrhistogram.Histogram
	dropped  int
}

func NewPercentile(quantile float64) *Percentile {
	return &Percentile{
		quantile: quantile,
		hist:     hdrhistogram.New(1, highestError, 3),
	}
}

func (p *Percentile) Name() string { return fmt.Sprintf("p%g", p.quantile) }

func (p *Percentile) Observe(cy sim.Cycle) {
	v := math.Abs(cy.Raw) * resolution
	if math.IsNaN(v) {
		return
	}
	if err := p.hist.RecordValue(int64(math.Min(v, highestError))); err != nil {
		p.dropped++
	}
}

func (p *Percentile) Value() float64 {
	if p.hist.TotalCount() == 0 {
		return 0
	}
	return float64(p.hist.ValueAtQuantile(p.quantile)) / resolution
}

// Dropped returns how many observations the histogram rejected.
func (p *Percentile) Dropped() int { return p.dropped }

func (p *Percentile) Reset() {
	p.hist.Reset()
	p.dropped = 0
}
