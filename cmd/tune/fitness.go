package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/draw"
	"github.com/pthm-cable/steam/engine"
)

// Target is the frame appearance the tuner aims for.
type Target struct {
	Brightness float64 // mean pixel value in [0, 1]
	Coverage   float64 // fraction of lit pixels
}

// Measurement is what one headless run produced on its last frame.
type Measurement struct {
	Brightness float64
	Coverage   float64
}

// FitnessEvaluator runs headless engines and scores their final frame
// against a target look. Lower is better.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	target     Target
	side       int
	frames     int
	width      int
	height     int
	seeds      []int64

	mu   sync.Mutex
	last Measurement
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, target Target, side, frames, width, height int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		target:     target,
		side:       side,
		frames:     frames,
		width:      width,
		height:     height,
		seeds:      seeds,
	}
}

// LastMeasurement returns the averaged measurement from the most recent
// evaluation.
func (fe *FitnessEvaluator) LastMeasurement() Measurement {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate scores raw parameter values averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)

	var sum Measurement
	for _, seed := range fe.seeds {
		m, err := fe.run(&cfg, seed)
		if err != nil {
			return math.Inf(1)
		}
		sum.Brightness += m.Brightness
		sum.Coverage += m.Coverage
	}
	n := float64(len(fe.seeds))
	avg := Measurement{Brightness: sum.Brightness / n, Coverage: sum.Coverage / n}

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return score(avg, fe.target)
}

func (fe *FitnessEvaluator) run(cfg *config.Config, seed int64) (Measurement, error) {
	opts := engine.OptionsFromConfig(cfg)
	opts.Side = fe.side
	opts.Seed = seed
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	e := engine.New(opts)
	canvas := draw.NewCanvas()
	if err := e.Start(canvas, fe.width, fe.height); err != nil {
		return Measurement{}, err
	}
	defer e.Stop()

	ctx := context.Background()
	for i := 0; i < fe.frames; i++ {
		if _, err := e.Frame(ctx); err != nil {
			return Measurement{}, err
		}
	}
	return measure(canvas), nil
}

// measure reads brightness and coverage off the canvas's final image.
func measure(c *draw.Canvas) Measurement {
	img := c.Image()
	pixels := len(img.Pix) / 4
	if pixels == 0 {
		return Measurement{}
	}
	var total float64
	lit := 0
	for i := 0; i < pixels; i++ {
		g := img.Pix[4*i]
		total += float64(g) / 255
		if g > 0 {
			lit++
		}
	}
	return Measurement{
		Brightness: total / float64(pixels),
		Coverage:   float64(lit) / float64(pixels),
	}
}

func score(m Measurement, t Target) float64 {
	db := m.Brightness - t.Brightness
	dc := m.Coverage - t.Coverage
	return db*db + dc*dc
}
