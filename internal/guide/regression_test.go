package guide

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLineRecoversLine(t *testing.T) {
	xs := make([]float64, 100)
	ys := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i) * 0.5
		ys[i] = 3 + 2*xs[i]
	}

	line, err := FitLine(xs, ys, Ridge)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, line.Slope, 1e-4)
	assert.InDelta(t, 3.0, line.Intercept, 1e-2)
	assert.InDelta(t, line.Intercept+line.Slope*10, line.At(10), 1e-12)
}

func TestFitLineDegenerateWindows(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"single point", []float64{5}, []float64{1}},
		{"repeated timestamp", []float64{2, 2, 2, 2}, []float64{1, 2, 3, 4}},
		{"all zero", []float64{0, 0, 0}, []float64{0, 0, 0}},
		{"large timestamps", []float64{1e4, 1e4 + 1, 1e4 + 2}, []float64{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := FitLine(tt.x, tt.y, Ridge)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(line.Slope) || math.IsInf(line.Slope, 0))
			assert.False(t, math.IsNaN(line.Intercept) || math.IsInf(line.Intercept, 0))
		})
	}
}

func TestFitLineDeterministic(t *testing.T) {
	xs := []float64{0, 0.5, 1.5, 2.5, 3.5}
	ys := []float64{1, 1.8, 2.1, 3.9, 4.0}

	a, err := FitLine(xs, ys, Ridge)
	require.NoError(t, err)
	b, err := FitLine(xs, ys, Ridge)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFitLineErrors(t *testing.T) {
	_, err := FitLine([]float64{1, 2}, []float64{1}, Ridge)
	assert.Error(t, err)

	_, err = FitLine([]float64{0, 1, 2}, []float64{0, math.NaN(), 1}, Ridge)
	assert.True(t, errors.Is(err, ErrNonFiniteFit), "got %v", err)

	line, err := FitLine(nil, nil, Ridge)
	require.NoError(t, err)
	assert.Equal(t, Line{}, line)
}
