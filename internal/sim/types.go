package sim

import (
	"errors"

	"github.com/san-kum/driftguide/internal/guide"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Cycle is one simulated exposure-measure-correct iteration.
type Cycle struct {
	Index    int
	Time     float64 // seconds since start, at the end of the exposure
	Exposure float64
	// Truth is the error the axis would show without any correction.
	Truth       float64
	Raw         float64
	Control     float64
	Corrected   float64
	Timestamp   float64
	DriftRate   float64
	DriftActive bool
}

// Guider is the guide algorithm under test.
type Guider interface {
	Step(raw, nextInterval float64) float64
	DriftRate() (float64, bool)
	Last() (guide.Sample, bool)
	Reset()
}

type Metric interface {
	Name() string
	Observe(c Cycle)
	Value() float64
	Reset()
}

type Observer interface {
	OnCycle(c Cycle)
}

type Config struct {
	// Cycles is the number of guide cycles Run performs.
	Cycles int
	// Exposure is the requested exposure in seconds.
	Exposure float64
	// Jitter scales the actual exposure by a uniform factor in
	// [1-Jitter, 1+Jitter].
	Jitter float64
	// Noise is the standard deviation of the seeing noise added to every
	// measurement.
	Noise float64
	Seed  int64
}

func DefaultConfig() Config {
	return Config{
		Cycles:   300,
		Exposure: 2.0,
		Jitter:   0.05,
		Noise:    0.2,
	}
}

type Result struct {
	Cycles  []Cycle
	Metrics map[string]float64
}

// Series extracts one field of every cycle.
func (r *Result) Series(field func(Cycle) float64) []float64 {
	out := make([]float64, len(r.Cycles))
	for i, c := range r.Cycles {
		out[i] = field(c)
	}
	return out
}
