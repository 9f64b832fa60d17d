package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDominantPeriod(t *testing.T) {
	const interval = 2.0
	series := make([]float64, 400)
	for i := range series {
		tm := float64(i) * interval
		series[i] = 3*math.Sin(2*math.Pi*tm/40) + 0.02*tm + 1
	}

	period, power, ok := DominantPeriod(series, interval)
	require.True(t, ok)
	assert.InDelta(t, 40, period, 1e-9)
	assert.Greater(t, power, 1.0)
}

func TestDetrendRemovesLine(t *testing.T) {
	series := []float64{1, 3, 5, 7, 9}
	for i, v := range Detrend(series, 0.5) {
		assert.InDelta(t, 0, v, 1e-2, "sample %d", i)
	}
}

func TestPowerSpectrumShortInput(t *testing.T) {
	assert.Empty(t, PowerSpectrum([]float64{1}, 1).Power)
	assert.Empty(t, PowerSpectrum([]float64{1, 2, 3}, 0).Power)

	_, _, ok := DominantPeriod(nil, 1)
	assert.False(t, ok)
}

func TestPowerSpectrumFrequencies(t *testing.T) {
	spec := PowerSpectrum(make([]float64, 8), 0.5)
	require.Len(t, spec.Freqs, 5)
	assert.Equal(t, 0.0, spec.Freqs[0])
	assert.InDelta(t, 1.0, spec.Freqs[4], 1e-12)
}
