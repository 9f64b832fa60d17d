package config

import "sort"

var Presets = map[string]*Config{
	"steady": {
		Axis: "ra", Cycles: 300, Exposure: 2.0, Jitter: 0.02, Noise: 0.1,
		Mount:   MountConfig{DriftRate: 0.002},
		Metrics: MetricsConfig{Settle: 30, Threshold: 0.5},
	},
	"polar-drift": {
		Axis: "dec", Cycles: 400, Exposure: 2.0, Jitter: 0.05, Noise: 0.2,
		Mount:   MountConfig{Offset: 0.5, DriftRate: 0.05},
		Metrics: MetricsConfig{Settle: 40, Threshold: 0.5},
	},
	"periodic-error": {
		Axis: "ra", Cycles: 600, Exposure: 1.5, Jitter: 0.05, Noise: 0.2,
		Mount:   MountConfig{DriftRate: 0.01, PeriodicAmplitude: 4, PeriodicPeriod: 480},
		Metrics: MetricsConfig{Settle: 40, Threshold: 1.0},
	},
	"noisy": {
		Axis: "ra", Cycles: 300, Exposure: 3.0, Jitter: 0.1, Noise: 1.0,
		Mount:   MountConfig{DriftRate: 0.02},
		Metrics: MetricsConfig{Settle: 30, Threshold: 2.0},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
