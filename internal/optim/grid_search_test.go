package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/guide"
)

func build(cycles int) func() *experiment.Experiment {
	return func() *experiment.Experiment {
		cfg := config.GetPreset("polar-drift")
		cfg.Cycles = cycles
		cfg.Seed = 3
		return experiment.New(cfg, nil)
	}
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch([]float64{0.2, 0.8}, []int{0, 25}).WithWorkers(2)

	best, points, err := g.Search(context.Background(), build(150), "rms")
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, 0.2, points[0].Gain)
	assert.Equal(t, 0, points[0].MinSamples)
	assert.Equal(t, 0.8, points[3].Gain)
	assert.Equal(t, 25, points[3].MinSamples)

	for _, p := range points {
		require.NoError(t, p.Err)
		assert.LessOrEqual(t, best.Value, p.Value)
	}
}

func TestGridSearchMatchesSequential(t *testing.T) {
	gains := []float64{0.3, 0.6, 1.0}
	mins := []int{0, 10}

	_, parallel, err := NewGridSearch(gains, mins).WithWorkers(4).Search(context.Background(), build(80), "rms")
	require.NoError(t, err)
	_, sequential, err := NewGridSearch(gains, mins).WithWorkers(1).Search(context.Background(), build(80), "rms")
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestGridSearchRejectedSettings(t *testing.T) {
	g := NewGridSearch([]float64{1.5, 0.5}, []int{-1, 5})

	best, points, err := g.Search(context.Background(), build(50), "rms")
	require.NoError(t, err)

	assert.ErrorIs(t, points[0].Err, guide.ErrInvalidParameter)
	assert.ErrorIs(t, points[1].Err, guide.ErrInvalidParameter)
	assert.ErrorIs(t, points[2].Err, guide.ErrInvalidParameter)
	assert.NoError(t, points[3].Err)
	assert.Equal(t, 0.5, best.Gain)
	assert.Equal(t, 5, best.MinSamples)

	ranked := Ranked(points)
	assert.Len(t, ranked, 1)
}

func TestGridSearchNoResult(t *testing.T) {
	g := NewGridSearch([]float64{2}, []int{1})

	_, _, err := g.Search(context.Background(), build(10), "rms")
	assert.True(t, errors.Is(err, ErrNoResult))
}

func TestGridSearchUnknownMetric(t *testing.T) {
	g := NewGridSearch([]float64{0.5}, []int{1})

	_, points, err := g.Search(context.Background(), build(10), "nope")
	assert.ErrorIs(t, err, ErrNoResult)
	assert.Error(t, points[0].Err)
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewGridSearch([]float64{0.5}, []int{1}).Search(ctx, build(10), "rms")
	assert.ErrorIs(t, err, context.Canceled)
}
