package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/driftguide/internal/mount"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Axis != "ra" {
		t.Errorf("expected axis ra, got %s", cfg.Axis)
	}
	if cfg.Exposure <= 0 {
		t.Error("exposure should be positive")
	}
	if cfg.Cycles <= 0 {
		t.Error("cycles should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("periodic-error")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mount.PeriodicPeriod != 480 {
		t.Errorf("expected period 480, got %f", cfg.Mount.PeriodicPeriod)
	}

	cfg.Mount.PeriodicPeriod = 1
	if Presets["periodic-error"].Mount.PeriodicPeriod != 480 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Error("presets should be sorted")
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Mount.PeriodicAmplitude = 2
	cfg.Mount.PeriodicPeriod = 300

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestSaveLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	cfg := GetPreset("periodic-error")
	cfg.Seed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestLoadTOMLPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	content := "axis = \"dec\"\ncycles = 50\n\n[mount]\ndrift_rate = 0.03\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Axis != "dec" || cfg.Cycles != 50 || cfg.Mount.DriftRate != 0.03 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Exposure != DefaultExposure {
		t.Errorf("expected default exposure, got %f", cfg.Exposure)
	}
}

func TestLoadTOMLUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte("integrator = \"rk4\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestMountModel(t *testing.T) {
	tests := []struct {
		name  string
		mount MountConfig
		terms int
	}{
		{"drift only", MountConfig{DriftRate: 0.1}, 1},
		{"with periodic", MountConfig{DriftRate: 0.1, PeriodicAmplitude: 1, PeriodicPeriod: 100}, 2},
		{"periodic without period", MountConfig{PeriodicAmplitude: 1}, 1},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Mount = tt.mount
		model, ok := cfg.MountModel().(mount.Composite)
		if !ok {
			t.Fatalf("%s: expected composite model", tt.name)
		}
		if len(model) != tt.terms {
			t.Errorf("%s: expected %d terms, got %d", tt.name, tt.terms, len(model))
		}
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.SimConfig()
	if sc.Cycles != cfg.Cycles || sc.Exposure != cfg.Exposure || sc.Noise != cfg.Noise {
		t.Errorf("unexpected sim config %+v", sc)
	}
}
