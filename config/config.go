// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Life      LifeConfig      `yaml:"life"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Motion    MotionConfig    `yaml:"motion"`
	Draw      DrawConfig      `yaml:"draw"`
	Workers   WorkersConfig   `yaml:"workers"`
	Debug     DebugConfig     `yaml:"debug"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ParticlesConfig holds the particle grid and initial motion ranges.
type ParticlesConfig struct {
	Side     int     `yaml:"side"`      // grid edge; particle count is side*side
	QuadW    float64 `yaml:"quad_w"`    // particle footprint in pixels
	QuadH    float64 `yaml:"quad_h"`
	SpeedMin float64 `yaml:"speed_min"` // initial speed range [min, max)
	SpeedMax float64 `yaml:"speed_max"`
	Seed     int64   `yaml:"seed"`      // 0 picks a time-based seed
}

// LifeConfig holds per-particle lifecycle ranges. All ranges are half-open.
type LifeConfig struct {
	SeedRange     int `yaml:"seed_range"`
	LifeOffsetMax int `yaml:"life_offset_max"`
	LifeMin       int `yaml:"life_min"`
	LifeMax       int `yaml:"life_max"`
}

// SpawnConfig controls where particles respawn.
type SpawnConfig struct {
	Radius float64 `yaml:"radius"` // fraction of the short viewport side
}

// MotionConfig holds the per-frame update coefficients.
type MotionConfig struct {
	Drift         float64 `yaml:"drift"`
	RotationScale float64 `yaml:"rotation_scale"`
	RotationBlend float64 `yaml:"rotation_blend"`
	SpeedDecay    float64 `yaml:"speed_decay"`
	NoiseSeed     int64   `yaml:"noise_seed"`
}

// DrawConfig holds particle shading parameters.
type DrawConfig struct {
	FadeBias  float64 `yaml:"fade_bias"`
	Intensity float64 `yaml:"intensity"`
}

// WorkersConfig controls simulation parallelism.
type WorkersConfig struct {
	Count     int `yaml:"count"` // 0 uses GOMAXPROCS
	ChunkSize int `yaml:"chunk_size"`
}

// DebugConfig holds debug overlay settings.
type DebugConfig struct {
	Overlay     bool `yaml:"overlay"`
	OverlaySize int  `yaml:"overlay_size"` // on-screen size of each texture panel
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // frames per stats record
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParticleCount int     // Particles.Side squared
	TextureSize   int     // state texture edge, 2 * Particles.Side
	ScreenW32     float32 // Screen.Width as float32
	ScreenH32     float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the engine cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.TargetFPS <= 0:
		return fmt.Errorf("%w: target_fps %d", ErrInvalid, c.Screen.TargetFPS)
	case c.Particles.Side <= 0:
		return fmt.Errorf("%w: particles.side %d", ErrInvalid, c.Particles.Side)
	case c.Particles.QuadW <= 0 || c.Particles.QuadH <= 0:
		return fmt.Errorf("%w: particle quad %vx%v", ErrInvalid, c.Particles.QuadW, c.Particles.QuadH)
	case c.Particles.SpeedMax < c.Particles.SpeedMin:
		return fmt.Errorf("%w: speed range [%v, %v)", ErrInvalid, c.Particles.SpeedMin, c.Particles.SpeedMax)
	case c.Life.LifeMin < 1 || c.Life.LifeMax <= c.Life.LifeMin:
		return fmt.Errorf("%w: life range [%d, %d)", ErrInvalid, c.Life.LifeMin, c.Life.LifeMax)
	case c.Life.SeedRange < 1 || c.Life.SeedRange > 1<<24:
		return fmt.Errorf("%w: seed_range %d", ErrInvalid, c.Life.SeedRange)
	case c.Life.LifeOffsetMax < 1:
		return fmt.Errorf("%w: life_offset_max %d", ErrInvalid, c.Life.LifeOffsetMax)
	case c.Workers.Count < 0 || c.Workers.ChunkSize < 0:
		return fmt.Errorf("%w: workers %d, chunk %d", ErrInvalid, c.Workers.Count, c.Workers.ChunkSize)
	case c.Telemetry.StatsWindow <= 0 || c.Telemetry.PerfCollectorWindow <= 0:
		return fmt.Errorf("%w: telemetry windows %d, %d", ErrInvalid, c.Telemetry.StatsWindow, c.Telemetry.PerfCollectorWindow)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ParticleCount = c.Particles.Side * c.Particles.Side
	c.Derived.TextureSize = 2 * c.Particles.Side
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
