package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/guide"
)

const scenarioYAML = `
name: compare
description: proportional only versus drift compensation
steps:
  - preset: polar-drift
    cycles: 120
    seed: 1
    min_samples: 0
    save_as: proportional
  - preset: polar-drift
    cycles: 120
    seed: 1
    gain: 0.7
    save_as: predictive
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "compare", s.Name)
	require.Len(t, s.Steps, 2)
	require.NotNil(t, s.Steps[0].MinSamples)
	assert.Equal(t, 0, *s.Steps[0].MinSamples)
	assert.Nil(t, s.Steps[0].Gain)
	require.NotNil(t, s.Steps[1].Gain)
	assert.Equal(t, 0.7, *s.Steps[1].Gain)

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	results, err := RunScenario(context.Background(), s, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].MinSamples)
	assert.Equal(t, guide.DefaultGain, results[0].Gain)
	assert.Equal(t, 0.7, results[1].Gain)
	assert.Equal(t, guide.DefaultMinSamples, results[1].MinSamples)
	assert.Len(t, results[0].Result.Cycles, 120)
	assert.Equal(t, "dec", results[0].Config.Axis)
}

func TestRunScenarioInvalidStep(t *testing.T) {
	gain := 2.0
	s := &Scenario{Steps: []ScenarioStep{{Cycles: 10}, {Cycles: 10, Gain: &gain}}}

	results, err := RunScenario(context.Background(), s, nil)
	assert.ErrorIs(t, err, guide.ErrInvalidParameter)
	assert.Len(t, results, 1)

	s = &Scenario{Steps: []ScenarioStep{{Preset: "nope"}}}
	_, err = RunScenario(context.Background(), s, nil)
	assert.Error(t, err)
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("steady")
	base.Cycles = 150

	cfg := &MonteCarloConfig{Base: base, DriftSpread: 0.02, NumTrials: 5, Tolerance: 0.01, Seed: 9}
	build := func(c *config.Config) (*experiment.Experiment, error) { return experiment.New(c, nil), nil }

	results, err := RunMonteCarlo(context.Background(), cfg, build)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, r := range results {
		assert.InDelta(t, base.Mount.DriftRate, r.DriftRate, 0.02)
	}

	again, err := RunMonteCarlo(context.Background(), cfg, build)
	require.NoError(t, err)
	assert.Equal(t, results, again)

	summary := MonteCarloStats(results)
	assert.Equal(t, 5, summary.Trials)
	assert.GreaterOrEqual(t, summary.MeanRMS, 0.0)
	assert.LessOrEqual(t, summary.Converged, 5)
}

func TestRunMonteCarloInvalid(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{NumTrials: 3}, nil)
	assert.Error(t, err)
}

func TestRunMonteCarloBuildError(t *testing.T) {
	base := config.GetPreset("steady")
	base.Cycles = 50

	errBuild := errors.New("bad gain")
	calls := 0
	build := func(c *config.Config) (*experiment.Experiment, error) {
		calls++
		if calls == 2 {
			return nil, errBuild
		}
		return experiment.New(c, nil), nil
	}

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, NumTrials: 4, Seed: 3}, build)
	require.ErrorIs(t, err, errBuild)
	assert.Len(t, results, 1)
}

func TestMonteCarloStats(t *testing.T) {
	results := []MonteCarloResult{
		{RMS: 1, DriftRate: 0.01, Estimated: 0.01, Converged: true},
		{RMS: 3, DriftRate: 0.01, Estimated: 0.03, Converged: false},
	}
	s := MonteCarloStats(results)

	assert.Equal(t, 2, s.Trials)
	assert.Equal(t, 1, s.Converged)
	assert.InDelta(t, 2.0, s.MeanRMS, 1e-12)
	assert.InDelta(t, 1.4142135623730951, s.StdRMS, 1e-12)
	assert.InDelta(t, 0.01, s.MeanError, 1e-12)

	assert.Equal(t, MonteCarloSummary{}, MonteCarloStats(nil))
}
