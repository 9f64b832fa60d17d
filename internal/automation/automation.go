package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/sim"
)

// Scenario defines a scripted sequence of guiding runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the value of the preset or of
// the default configuration.
type ScenarioStep struct {
	Preset     string   `yaml:"preset"`
	Axis       string   `yaml:"axis"`
	Cycles     int      `yaml:"cycles"`
	Exposure   float64  `yaml:"exposure"`
	Noise      float64  `yaml:"noise"`
	DriftRate  *float64 `yaml:"drift_rate"`
	Seed       int64    `yaml:"seed"`
	Gain       *float64 `yaml:"gain"`
	MinSamples *int     `yaml:"min_samples"`
	SaveAs     string   `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step       ScenarioStep
	Config     *config.Config
	Gain       float64
	MinSamples int
	Result     *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

func (s ScenarioStep) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Axis != "" {
		cfg.Axis = s.Axis
	}
	if s.Cycles != 0 {
		cfg.Cycles = s.Cycles
	}
	if s.Exposure != 0 {
		cfg.Exposure = s.Exposure
	}
	if s.Noise != 0 {
		cfg.Noise = s.Noise
	}
	if s.DriftRate != nil {
		cfg.Mount.DriftRate = *s.DriftRate
	}
	cfg.Seed = s.Seed
	return cfg, nil
}

// RunScenario executes all steps in a scenario. Controllers start from the
// defaults; steps override gain and threshold explicitly.
func RunScenario(ctx context.Context, scenario *Scenario, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step", zap.String("scenario", scenario.Name),
			zap.Int("step", i+1), zap.Int("steps", len(scenario.Steps)), zap.String("preset", step.Preset))

		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, log)
		if step.Gain != nil {
			if err := exp.Guider().SetGain(*step.Gain); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.MinSamples != nil {
			if err := exp.Guider().SetMinSamplesForInference(*step.MinSamples); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:       step,
			Config:     cfg,
			Gain:       exp.Guider().Gain(),
			MinSamples: exp.Guider().MinSamplesForInference(),
			Result:     result,
		})
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base *config.Config
	// DriftSpread perturbs the drift rate of every trial uniformly within
	// [-DriftSpread, DriftSpread] around the base rate.
	DriftSpread float64
	NumTrials   int
	// Tolerance bounds the distance between the estimated and the true
	// drift rate for a trial to count as converged.
	Tolerance float64
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial
type MonteCarloResult struct {
	TrialID   int
	Seed      int64
	DriftRate float64
	Estimated float64
	RMS       float64
	Converged bool
}

// RunMonteCarlo executes trials with random drift rates and seeing noise
// realisations. build configures the experiment of each trial; an error from
// it stops the run.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, build func(*config.Config) (*experiment.Experiment, error)) ([]MonteCarloResult, error) {
	if cfg.Base == nil || cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs a base config and a positive trial count")
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := *cfg.Base
		trialCfg.Seed = rng.Int63()
		trialCfg.Mount.DriftRate += (rng.Float64() - 0.5) * 2 * cfg.DriftSpread

		exp, err := build(&trialCfg)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		estimated := result.Metrics["drift_rate"]
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Seed:      trialCfg.Seed,
			DriftRate: trialCfg.Mount.DriftRate,
			Estimated: estimated,
			RMS:       result.Metrics["rms"],
			Converged: math.Abs(estimated-trialCfg.Mount.DriftRate) <= cfg.Tolerance,
		})
	}

	return results, nil
}

// MonteCarloSummary aggregates trial results.
type MonteCarloSummary struct {
	Trials    int
	Converged int
	MeanRMS   float64
	StdRMS    float64
	// MeanError is the mean absolute drift estimation error.
	MeanError float64
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	s := MonteCarloSummary{Trials: len(results)}
	if len(results) == 0 {
		return s
	}

	rms := make([]float64, len(results))
	errs := make([]float64, len(results))
	for i, r := range results {
		if r.Converged {
			s.Converged++
		}
		rms[i] = r.RMS
		errs[i] = math.Abs(r.Estimated - r.DriftRate)
	}
	s.MeanRMS = stat.Mean(rms, nil)
	if len(rms) > 1 {
		s.StdRMS = stat.StdDev(rms, nil)
	}
	s.MeanError = stat.Mean(errs, nil)
	return s
}
