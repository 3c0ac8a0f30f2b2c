package engine

import (
	"log/slog"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/draw"
	"github.com/pthm-cable/steam/sim"
	"github.com/pthm-cable/steam/state"
	"github.com/pthm-cable/steam/telemetry"
)

// Options configure an Engine.
type Options struct {
	Side         int
	QuadW, QuadH float32
	Init         state.InitParams
	Sim          sim.Params
	Draw         draw.Program
	TargetFPS    int
	MaxFrames    int   // Run returns after this many frames; 0 runs until stopped
	Seed         int64 // initial-state rng seed
	NoiseSeed    int64
	OverlaySize  int
	PerfWindow   int // frames averaged by Perf

	// Optional deterministic substitutes.
	Field   sim.Field
	Hash    sim.Hasher
	Records []state.Record
	Seeds   []state.Seed

	// OnFrame runs after every presented frame while the engine lock is
	// held. It must not call back into the engine.
	OnFrame func(FrameInfo)

	Logger *slog.Logger
}

// OptionsFromConfig maps a loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Side:  cfg.Particles.Side,
		QuadW: float32(cfg.Particles.QuadW),
		QuadH: float32(cfg.Particles.QuadH),
		Init: state.InitParams{
			SpeedMin:      cfg.Particles.SpeedMin,
			SpeedMax:      cfg.Particles.SpeedMax,
			SeedRange:     cfg.Life.SeedRange,
			LifeOffsetMax: cfg.Life.LifeOffsetMax,
			LifeMin:       cfg.Life.LifeMin,
			LifeMax:       cfg.Life.LifeMax,
		},
		Sim: sim.Params{
			SpawnRadius:   cfg.Spawn.Radius,
			Drift:         cfg.Motion.Drift,
			RotationScale: cfg.Motion.RotationScale,
			RotationBlend: cfg.Motion.RotationBlend,
			SpeedDecay:    cfg.Motion.SpeedDecay,
			Workers:       cfg.Workers.Count,
			ChunkSize:     cfg.Workers.ChunkSize,
		},
		Draw: draw.Program{
			FadeBias:  cfg.Draw.FadeBias,
			Intensity: float32(cfg.Draw.Intensity),
		},
		TargetFPS:   cfg.Screen.TargetFPS,
		Seed:        cfg.Particles.Seed,
		NoiseSeed:   cfg.Motion.NoiseSeed,
		OverlaySize: cfg.Debug.OverlaySize,
		PerfWindow:  cfg.Telemetry.PerfCollectorWindow,
	}
}

// FrameInfo describes a completed frame. Records and Seeds alias engine
// buffers and are only valid during the OnFrame callback.
type FrameInfo struct {
	Frame     int
	Particles int
	Respawned int
	Records   []state.Record
	Seeds     []state.Seed
	Viewport  state.Viewport

	perf *telemetry.PerfCollector
}

// Perf returns frame timing over the rolling window. It is only valid
// during the OnFrame callback and excludes the frame in progress.
func (f FrameInfo) Perf() telemetry.PerfStats {
	if f.perf == nil {
		return telemetry.PerfStats{}
	}
	return f.perf.Stats()
}
