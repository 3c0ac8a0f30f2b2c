package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/camera"
	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/draw"
	"github.com/pthm-cable/steam/engine"
	"github.com/pthm-cable/steam/renderer"
	"github.com/pthm-cable/steam/telemetry"
	"github.com/pthm-cable/steam/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Initial state seed (0 = use config, then time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	overlay := flag.Bool("overlay", false, "Start with the texture overlay on")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := engine.OptionsFromConfig(cfg)
	opts.Logger = logger
	opts.MaxFrames = *maxFrames
	if *seed != 0 {
		opts.Seed = *seed
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	recorder := telemetry.NewRecorder(
		telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		output,
		opts.Draw.Alpha,
		*logStats,
	)
	opts.OnFrame = func(info engine.FrameInfo) {
		if _, err := recorder.Observe(info.Frame, info.Respawned, info.Records, info.Seeds, info.Viewport, info.Perf); err != nil {
			slog.Error("recording telemetry", "frame", info.Frame, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := engine.New(opts)
	if *overlay || cfg.Debug.Overlay {
		e.SetDebugOverlay(true)
	}

	slog.Info("starting",
		"seed", opts.Seed,
		"particles", cfg.Derived.ParticleCount,
		"headless", *headless,
		"max_frames", *maxFrames,
	)

	if *headless {
		err = runHeadless(ctx, e, cfg)
	} else {
		err = runWindow(ctx, e, cfg, *maxFrames)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless drives the engine against the software canvas.
func runHeadless(ctx context.Context, e *engine.Engine, cfg *config.Config) error {
	if err := e.Start(draw.NewCanvas(), cfg.Screen.Width, cfg.Screen.Height); err != nil {
		return err
	}
	defer e.Stop()
	return e.Run(ctx)
}

// runWindow drives the engine from the raylib loop. Frames are paced by
// raylib rather than Engine.Run so input and drawing share one thread.
func runWindow(ctx context.Context, e *engine.Engine, cfg *config.Config, maxFrames int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	cam := camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height))
	win := renderer.NewWindow(cfg.Screen.Title, false)
	win.View = cam
	hud := ui.NewHUD()
	perfPanel := ui.NewPerfPanel(int32(cfg.Screen.Width)-230, 10, 220)

	overlayOn := e.DebugOverlay()
	var (
		actions ui.Actions
		last    engine.FrameInfo
		perf    telemetry.PerfStats
	)
	win.OnDraw = func() {
		actions = hud.Draw(ui.HUDData{
			Title:        cfg.Screen.Title,
			Frame:        last.Frame,
			Particles:    last.Particles,
			Respawned:    last.Respawned,
			FPS:          rl.GetFPS(),
			Overlay:      overlayOn,
			ScreenWidth:  int32(rl.GetScreenWidth()),
			ScreenHeight: int32(rl.GetScreenHeight()),
		})
		perfPanel.Draw(perf)
	}

	width, height := cfg.Screen.Width, cfg.Screen.Height
	if err := e.Start(win, width, height); err != nil {
		return err
	}
	defer e.Stop()

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if rl.IsWindowResized() {
			width, height = rl.GetScreenWidth(), rl.GetScreenHeight()
			if err := e.Resize(width, height); err != nil {
				return err
			}
			perfPanel.SetPosition(int32(width)-230, 10)
			cam.Resize(float32(width), float32(height))
		}
		handleCameraInput(cam)
		if rl.IsKeyPressed(rl.KeyT) {
			overlayOn = !overlayOn
			e.SetDebugOverlay(overlayOn)
		}

		info, err := e.Frame(ctx)
		if err != nil {
			return err
		}
		last = engine.FrameInfo{Frame: info.Frame, Particles: info.Particles, Respawned: info.Respawned}
		if info.Frame%cfg.Telemetry.PerfCollectorWindow == 0 {
			perf = e.Perf()
		}

		if actions.Overlay != overlayOn {
			overlayOn = actions.Overlay
			e.SetDebugOverlay(overlayOn)
		}
		if actions.Restart || rl.IsKeyPressed(rl.KeyR) {
			e.Stop()
			if err := e.Start(win, width, height); err != nil {
				return err
			}
			actions.Restart = false
		}

		if maxFrames > 0 && info.Frame >= maxFrames {
			slog.Info("max frames reached", "frame", info.Frame)
			return nil
		}
	}
	return nil
}

// handleCameraInput zooms with the mouse wheel, pans with a right-button
// drag and resets with 0.
func handleCameraInput(cam *camera.Camera) {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		cam.ZoomAt(m.X, m.Y, 1+0.1*wheel)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		cam.Reset()
	}
}
