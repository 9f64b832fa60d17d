package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftguide/internal/mount"
	"github.com/san-kum/driftguide/internal/sim"
)

const (
	DefaultAxis      = "ra"
	DefaultCycles    = 300
	DefaultExposure  = 2.0
	DefaultJitter    = 0.05
	DefaultNoise     = 0.2
	DefaultDrift     = 0.01
	DefaultSettle    = 30
	DefaultThreshold = 0.5
)

type Config struct {
	Axis     string        `yaml:"axis" toml:"axis"`
	Cycles   int           `yaml:"cycles" toml:"cycles"`
	Exposure float64       `yaml:"exposure" toml:"exposure"`
	Jitter   float64       `yaml:"jitter" toml:"jitter"`
	Noise    float64       `yaml:"noise" toml:"noise"`
	Seed     int64         `yaml:"seed" toml:"seed"`
	Mount    MountConfig   `yaml:"mount" toml:"mount"`
	Metrics  MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// MountConfig describes the uncorrected pointing error of the axis.
type MountConfig struct {
	Offset            float64 `yaml:"offset" toml:"offset"`
	DriftRate         float64 `yaml:"drift_rate" toml:"drift_rate"`
	PeriodicAmplitude float64 `yaml:"periodic_amplitude" toml:"periodic_amplitude"`
	PeriodicPeriod    float64 `yaml:"periodic_period" toml:"periodic_period"`
	PeriodicPhase     float64 `yaml:"periodic_phase" toml:"periodic_phase"`
}

type MetricsConfig struct {
	// Settle is the number of leading cycles excluded from the RMS.
	Settle int `yaml:"settle" toml:"settle"`
	// Threshold is the error bound used by the stability metric.
	Threshold float64 `yaml:"threshold" toml:"threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Axis:     DefaultAxis,
		Cycles:   DefaultCycles,
		Exposure: DefaultExposure,
		Jitter:   DefaultJitter,
		Noise:    DefaultNoise,
		Mount: MountConfig{
			DriftRate: DefaultDrift,
		},
		Metrics: MetricsConfig{
			Settle:    DefaultSettle,
			Threshold: DefaultThreshold,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML config, or a TOML one when path ends in ".toml".
// Missing fields keep their defaults. Unknown TOML keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	marshal := yaml.Marshal
	if isTOML(path) {
		marshal = toml.Marshal
	}
	data, err := marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Cycles:   c.Cycles,
		Exposure: c.Exposure,
		Jitter:   c.Jitter,
		Noise:    c.Noise,
		Seed:     c.Seed,
	}
}

func (c *Config) MountModel() mount.Model {
	model := mount.Composite{
		mount.Drift{Offset: c.Mount.Offset, Rate: c.Mount.DriftRate},
	}
	if c.Mount.PeriodicAmplitude != 0 && c.Mount.PeriodicPeriod > 0 {
		model = append(model, mount.Periodic{
			Amplitude: c.Mount.PeriodicAmplitude,
			Period:    c.Mount.PeriodicPeriod,
			Phase:     c.Mount.PeriodicPhase,
		})
	}
	return model
}
