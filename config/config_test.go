package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Particles.Side != 256 {
		t.Errorf("side = %d, want 256", cfg.Particles.Side)
	}
	if cfg.Derived.ParticleCount != 65536 || cfg.Derived.TextureSize != 512 {
		t.Errorf("derived = %+v", cfg.Derived)
	}
	if cfg.Screen.TargetFPS != 30 {
		t.Errorf("target fps = %d, want 30", cfg.Screen.TargetFPS)
	}
	if cfg.Life.LifeMin != 15 || cfg.Life.LifeMax != 90 || cfg.Life.LifeOffsetMax != 300 {
		t.Errorf("life = %+v", cfg.Life)
	}
	if cfg.Spawn.Radius != 0.56 || cfg.Motion.Drift != 0.003 || cfg.Motion.SpeedDecay != 0.9 {
		t.Errorf("motion = %+v spawn = %+v", cfg.Motion, cfg.Spawn)
	}
	if cfg.Draw.FadeBias != 0.05 || cfg.Draw.Intensity != 0.3 {
		t.Errorf("draw = %+v", cfg.Draw)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("particles:\n  side: 8\nscreen:\n  width: 320\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Particles.Side != 8 || cfg.Derived.ParticleCount != 64 {
		t.Errorf("side = %d, count = %d", cfg.Particles.Side, cfg.Derived.ParticleCount)
	}
	if cfg.Screen.Width != 320 || cfg.Screen.Height != 720 {
		t.Errorf("screen = %dx%d, want 320x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	// Untouched sibling fields keep their defaults.
	if cfg.Particles.QuadH != 2 || cfg.Particles.SpeedMax != 200 {
		t.Errorf("particles = %+v", cfg.Particles)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero life", "life:\n  life_min: 0\n"},
		{"inverted life", "life:\n  life_min: 50\n  life_max: 20\n"},
		{"no particles", "particles:\n  side: 0\n"},
		{"zero fps", "screen:\n  target_fps: 0\n"},
		{"seed range too wide", "life:\n  seed_range: 16777217\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Particles.Side = 12

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Particles != cfg.Particles || back.Life != cfg.Life || back.Motion != cfg.Motion {
		t.Errorf("round trip mismatch: %+v vs %+v", back.Particles, cfg.Particles)
	}
}

func TestInitAndCfg(t *testing.T) {
	defer func() { global = nil }()
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Particles.Side != 256 {
		t.Errorf("Cfg side = %d", Cfg().Particles.Side)
	}
}
