// Package engine owns the particle resources and drives the per-frame
// pipeline: simulate into the next buffer, swap, draw the current buffer,
// present.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/steam/draw"
	"github.com/pthm-cable/steam/mesh"
	"github.com/pthm-cable/steam/sim"
	"github.com/pthm-cable/steam/state"
	"github.com/pthm-cable/steam/telemetry"
)

var (
	// ErrSurfaceUnavailable is returned by Start when the surface cannot be opened.
	ErrSurfaceUnavailable = errors.New("engine: surface unavailable")
	// ErrInvalidViewport is returned for a non-positive viewport.
	ErrInvalidViewport = errors.New("engine: invalid viewport")
	// ErrRunning is returned by Start on an engine that is already running.
	ErrRunning = errors.New("engine: already running")
	// ErrStopped is returned for frame or resize requests while not running.
	ErrStopped = errors.New("engine: not running")
)

// Surface is the host display the engine presents to.
type Surface interface {
	Open(width, height int) error
	Resize(width, height int) error
	// Present composites one frame; overlay is nil unless the debug view is on.
	Present(b *draw.Batch, overlay *draw.Overlay) error
	Close() error
}

// Engine runs the simulation and draw stages against a surface.
// Frame, Resize, Stop and SetDebugOverlay are serialised.
type Engine struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	running bool
	surface Surface
	store   *state.Store
	initial []state.Record
	mesh    *mesh.Descriptor
	stage   *sim.Stage
	batch   *draw.Batch
	vp      state.Viewport
	frame   int
	debug   bool
	perf    *telemetry.PerfCollector

	loopMu     sync.Mutex
	loopCancel context.CancelFunc
}

// New creates a stopped engine.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.TargetFPS <= 0 {
		opts.TargetFPS = 30
	}
	if opts.QuadW == 0 || opts.QuadH == 0 {
		opts.QuadW, opts.QuadH = 1, 2
	}
	if opts.Draw == (draw.Program{}) {
		opts.Draw = draw.DefaultProgram()
	}
	if opts.Sim == (sim.Params{}) {
		opts.Sim = sim.DefaultParams()
	}
	if opts.OverlaySize <= 0 {
		opts.OverlaySize = 256
	}
	if opts.PerfWindow <= 0 {
		opts.PerfWindow = opts.TargetFPS
	}
	return &Engine{
		opts: opts,
		log:  log,
		perf: telemetry.NewPerfCollector(opts.PerfWindow),
	}
}

// Start allocates all particle resources and opens the surface. It either
// fully succeeds or leaves the engine stopped with nothing retained.
func (e *Engine) Start(surface Surface, width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrRunning
	}
	if surface == nil {
		return fmt.Errorf("%w: nil surface", ErrSurfaceUnavailable)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	vp := state.Viewport{Width: float64(width), Height: float64(height)}

	store, err := e.newStore(vp)
	if err != nil {
		return fmt.Errorf("initialising state: %w", err)
	}
	desc, err := mesh.ParticleGrid(store.Side(), 2*store.Side(), e.opts.QuadW, e.opts.QuadH)
	if err != nil {
		return fmt.Errorf("building particle mesh: %w", err)
	}
	if err := surface.Open(width, height); err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}

	field := e.opts.Field
	if field == nil {
		field = sim.NewSimplexField(e.opts.NoiseSeed)
	}

	e.surface = surface
	e.store = store
	e.initial = append([]state.Record(nil), store.Current()...)
	e.mesh = desc
	e.stage = sim.NewStage(e.opts.Sim, field, e.opts.Hash)
	e.batch = &draw.Batch{}
	e.vp = vp
	e.frame = 0
	e.running = true

	e.log.Info("engine started",
		"particles", store.Len(),
		"side", store.Side(),
		"width", width,
		"height", height,
	)
	return nil
}

func (e *Engine) newStore(vp state.Viewport) (*state.Store, error) {
	if e.opts.Records != nil || e.opts.Seeds != nil {
		return state.FromRecords(e.opts.Side, e.opts.Records, e.opts.Seeds)
	}
	seed := e.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return state.New(e.opts.Side, vp, e.opts.Init, rand.New(rand.NewSource(seed)))
}

// Resize reallocates the surface's intermediate target. The particle grid
// keeps its size; only the viewport used by later frames changes.
func (e *Engine) Resize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return ErrStopped
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	if err := e.surface.Resize(width, height); err != nil {
		return fmt.Errorf("resizing surface: %w", err)
	}
	e.vp = state.Viewport{Width: float64(width), Height: float64(height)}
	return nil
}

// SetDebugOverlay turns the texture overlay on or off.
func (e *Engine) SetDebugOverlay(on bool) {
	e.mu.Lock()
	e.debug = on
	e.mu.Unlock()
}

// DebugOverlay reports whether the texture overlay is on.
func (e *Engine) DebugOverlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.debug
}

// Stop cancels a running loop, waits for any in-flight frame, then closes
// the surface and drops every buffer. It is safe to call more than once.
func (e *Engine) Stop() {
	e.loopMu.Lock()
	if e.loopCancel != nil {
		e.loopCancel()
	}
	e.loopMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	if err := e.surface.Close(); err != nil {
		e.log.Error("closing surface", "error", err)
	}
	e.running = false
	e.surface = nil
	e.store = nil
	e.initial = nil
	e.mesh = nil
	e.stage = nil
	e.batch = nil
	e.log.Info("engine stopped", "frame", e.frame)
}

// Frame advances and presents one frame.
func (e *Engine) Frame(ctx context.Context) (FrameInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return FrameInfo{}, ErrStopped
	}

	frame := e.frame + 1
	e.perf.StartFrame()

	e.perf.StartPhase(telemetry.PhaseSimulate)
	res, err := e.stage.Run(ctx, e.store.Current(), e.store.Seeds(), e.store.Next(), frame, e.vp)
	if err != nil {
		return FrameInfo{}, fmt.Errorf("simulating frame %d: %w", frame, err)
	}

	e.perf.StartPhase(telemetry.PhaseSwap)
	e.store.Swap()
	e.frame = frame

	e.perf.StartPhase(telemetry.PhaseDraw)
	in := draw.Input{
		Records:  e.store.Current(),
		Seeds:    e.store.Seeds(),
		Side:     e.store.Side(),
		Frame:    frame,
		Viewport: e.vp,
	}
	if _, err := e.opts.Draw.Run(e.mesh, in, e.batch); err != nil {
		return FrameInfo{}, fmt.Errorf("drawing frame %d: %w", frame, err)
	}
	var overlay *draw.Overlay
	if e.debug {
		if overlay, err = e.overlay(); err != nil {
			return FrameInfo{}, fmt.Errorf("building overlay: %w", err)
		}
	}

	e.perf.StartPhase(telemetry.PhasePresent)
	if err := e.surface.Present(e.batch, overlay); err != nil {
		return FrameInfo{}, fmt.Errorf("presenting frame %d: %w", frame, err)
	}

	info := FrameInfo{
		Frame:     frame,
		Particles: res.Particles,
		Respawned: res.Respawned,
		Records:   e.store.Current(),
		Seeds:     e.store.Seeds(),
		Viewport:  e.vp,
		perf:      e.perf,
	}
	if e.opts.OnFrame != nil {
		e.perf.StartPhase(telemetry.PhaseTelemetry)
		e.opts.OnFrame(info)
	}
	e.perf.EndFrame()
	return info, nil
}

func (e *Engine) overlay() (*draw.Overlay, error) {
	side := e.store.Side()
	initial, err := state.EncodeStateTexture(e.initial, side)
	if err != nil {
		return nil, err
	}
	current, err := state.EncodeStateTexture(e.store.Current(), side)
	if err != nil {
		return nil, err
	}
	seeds, err := state.EncodeSeedTexture(e.store.Seeds(), side)
	if err != nil {
		return nil, err
	}
	return &draw.Overlay{
		Initial:   initial.Image(),
		Current:   current.Image(),
		Seeds:     seeds,
		PanelSize: e.opts.OverlaySize,
	}, nil
}

// Run drives frames at the target rate until ctx is done, Stop is called
// or MaxFrames is reached. Cancellation of ctx is returned as an error;
// Stop and MaxFrames end the loop cleanly.
func (e *Engine) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.loopMu.Lock()
	e.loopCancel = cancel
	e.loopMu.Unlock()

	ticker := time.NewTicker(time.Second / time.Duration(e.opts.TargetFPS))
	defer ticker.Stop()

	frames := 0
	for {
		select {
		case <-loopCtx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := e.Frame(loopCtx)
		switch {
		case errors.Is(err, ErrStopped):
			return nil
		case err != nil && loopCtx.Err() != nil:
			return ctx.Err()
		case err != nil:
			return err
		}

		frames++
		if e.opts.MaxFrames > 0 && frames >= e.opts.MaxFrames {
			e.log.Info("frame limit reached", "frame", info.Frame)
			return nil
		}
	}
}

// FrameCount returns the last completed frame number.
func (e *Engine) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Running reports whether the engine holds live resources.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Perf returns frame timing over the rolling window.
func (e *Engine) Perf() telemetry.PerfStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.perf.Stats()
}

// Snapshot is a copy of the engine's particle state.
type Snapshot struct {
	Frame    int
	Side     int
	Initial  []state.Record
	Current  []state.Record
	Seeds    []state.Seed
	Viewport state.Viewport
}

// Snapshot copies the current particle state.
func (e *Engine) Snapshot() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return Snapshot{}, ErrStopped
	}
	return Snapshot{
		Frame:    e.frame,
		Side:     e.store.Side(),
		Initial:  append([]state.Record(nil), e.initial...),
		Current:  append([]state.Record(nil), e.store.Current()...),
		Seeds:    append([]state.Seed(nil), e.store.Seeds()...),
		Viewport: e.vp,
	}, nil
}
