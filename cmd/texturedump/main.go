// Texture dump tool - runs the engine headless for a number of frames and
// writes the state texture, seed texture and rendered frame as PNG files.
//
// Usage: go run ./cmd/texturedump -frames 120 -out-dir dump
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/draw"
	"github.com/pthm-cable/steam/engine"
	"github.com/pthm-cable/steam/state"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 60, "Frames to simulate before dumping")
	outDir := flag.String("out-dir", "texturedump", "Output directory")
	seed := flag.Int64("seed", 1, "Initial state seed")
	width := flag.Int("width", 0, "Viewport width (0 = use config)")
	height := flag.Int("height", 0, "Viewport height (0 = use config)")
	flag.Parse()

	if err := run(*configPath, *frames, *outDir, *seed, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "texturedump: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, frames int, outDir string, seed int64, width, height int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if width <= 0 {
		width = cfg.Screen.Width
	}
	if height <= 0 {
		height = cfg.Screen.Height
	}

	opts := engine.OptionsFromConfig(cfg)
	opts.Seed = seed
	e := engine.New(opts)

	canvas := draw.NewCanvas()
	if err := e.Start(canvas, width, height); err != nil {
		return err
	}
	defer e.Stop()

	ctx := context.Background()
	for i := 0; i < frames; i++ {
		if _, err := e.Frame(ctx); err != nil {
			return err
		}
	}

	snap, err := e.Snapshot()
	if err != nil {
		return err
	}
	stateTex, err := state.EncodeStateTexture(snap.Current, snap.Side)
	if err != nil {
		return err
	}
	seedTex, err := state.EncodeSeedTexture(snap.Seeds, snap.Side)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outputs := []struct {
		name string
		img  image.Image
	}{
		{"state.png", stateTex.Image()},
		{"seeds.png", seedTex},
		{"frame.png", canvas.Image()},
	}
	for _, o := range outputs {
		path := filepath.Join(outDir, o.name)
		if !rl.ExportImage(*rl.NewImageFromImage(o.img), path) {
			return fmt.Errorf("exporting %s", path)
		}
		fmt.Printf("Wrote %s (%dx%d)\n", path, o.img.Bounds().Dx(), o.img.Bounds().Dy())
	}
	fmt.Printf("Frame %d, %d particles\n", snap.Frame, len(snap.Current))
	return nil
}
