package metrics

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/driftguide/internal/sim"
)

func observeAll(m sim.Metric, raws ...float64) {
	for _, r := range raws {
		m.Observe(sim.Cycle{Raw: r, Control: r / 2})
	}
}

func TestRMS(t *testing.T) {
	m := NewRMS(1)
	observeAll(m, 100, 3, -4, 3, -4)

	assert.InDelta(t, math.Sqrt(12.5), m.Value(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestStdDevAndPeak(t *testing.T) {
	sd := NewStdDev()
	pk := NewPeak()
	for _, m := range []sim.Metric{sd, pk} {
		observeAll(m, 1, 2, 3, -6)
	}

	assert.InDelta(t, math.Sqrt(50.0/3), sd.Value(), 1e-12)
	assert.Equal(t, 6.0, pk.Value())

	pk.Reset()
	assert.Equal(t, 0.0, pk.Value())
}

func TestStability(t *testing.T) {
	m := NewStability(1)
	assert.Equal(t, 1.0, m.Value())

	observeAll(m, 0.5, 2, -0.2, -3)
	assert.Equal(t, 0.5, m.Value())
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	observeAll(m, 2, -4)
	assert.Equal(t, 1.5, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestDriftRateKeepsLastActiveEstimate(t *testing.T) {
	m := NewDriftRate()
	m.Observe(sim.Cycle{DriftRate: 0.3, DriftActive: true})
	m.Observe(sim.Cycle{DriftRate: 0, DriftActive: false})
	assert.Equal(t, 0.3, m.Value())
}

func TestPercentile(t *testing.T) {
	m := NewPercentile(90)
	assert.Equal(t, "p90", m.Name())
	assert.Equal(t, 0.0, m.Value())

	for i := 1; i <= 100; i++ {
		m.Observe(sim.Cycle{Raw: float64(i) / 100})
	}
	assert.InDelta(t, 0.9, m.Value(), 0.001)

	m.Observe(sim.Cycle{Raw: math.Inf(-1)})
	m.Observe(sim.Cycle{Raw: math.NaN()})
	assert.InDelta(t, 0.9, m.Value(), 0.02)
	assert.Equal(t, 0, m.Dropped(), "out of range errors are clamped, not dropped")

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
	assert.Equal(t, 0, m.Dropped())
}

func TestDefaultNames(t *testing.T) {
	var names []string
	for _, m := range Default(10, 1) {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"rms", "stddev", "peak", "p90", "stability", "control_effort", "drift_rate",
	}, names)
}

func TestExporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := NewExporter(reg, "ra")
	require.NoError(t, err)

	e.OnCycle(sim.Cycle{Raw: 0.4, Control: 0.3, Corrected: 1.2, DriftRate: 0.01, DriftActive: true})
	e.OnCycle(sim.Cycle{Raw: -0.1, Control: 0.2, Corrected: 1.3, DriftRate: 0.02, DriftActive: true})

	assert.Equal(t, -0.1, testutil.ToFloat64(e.raw))
	assert.Equal(t, 0.02, testutil.ToFloat64(e.drift))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.active))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.cycles))

	_, err = NewExporter(reg, "ra")
	assert.Error(t, err, "registering the same axis twice must fail")
}
