// Package sim advances particle state by one frame.
//
// The update is a pure function of the previous record, the particle's seed
// record, the frame counter and the viewport. Every index is independent,
// so Run may split the grid across goroutines without changing the result.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/steam/codec"
	"github.com/pthm-cable/steam/state"
)

// ErrLengthMismatch is returned when the input and output slices differ in length.
var ErrLengthMismatch = errors.New("sim: buffer length mismatch")

const degToRad = math.Pi / 180

// Params are the motion coefficients of the update rules.
type Params struct {
	SpawnRadius   float64 // fraction of the short viewport side
	Drift         float64 // position step per unit speed
	RotationScale float64 // noise coordinate scale for rotation
	RotationBlend float64 // mix factor toward the noise heading
	SpeedDecay    float64 // per-frame speed multiplier

	Workers   int // 0 uses GOMAXPROCS
	ChunkSize int // particles per goroutine task
}

// DefaultParams returns the tuned motion coefficients.
func DefaultParams() Params {
	return Params{
		SpawnRadius:   0.56,
		Drift:         0.003,
		RotationScale: 0.001,
		RotationBlend: 0.01,
		SpeedDecay:    0.9,
		ChunkSize:     4096,
	}
}

// Stage runs the simulation update.
type Stage struct {
	params Params
	field  Field
	hash   Hasher
}

// NewStage creates a stage. A nil field or hasher selects the defaults.
func NewStage(p Params, field Field, hash Hasher) *Stage {
	if field == nil {
		field = NewSimplexField(0)
	}
	if hash == nil {
		hash = Hash
	}
	if p.ChunkSize <= 0 {
		p.ChunkSize = DefaultParams().ChunkSize
	}
	return &Stage{params: p, field: field, hash: hash}
}

// Params returns the stage coefficients.
func (s *Stage) Params() Params {
	return s.params
}

// Result summarises one Run.
type Result struct {
	Particles int
	Respawned int
}

// Respawns reports whether a particle resets on the given frame.
// life must be at least 1.
func Respawns(frame int, seed state.Seed) bool {
	return floorMod(frame-seed.LifeOffset, seed.Life) == 0
}

// Step computes the next record of one particle. Every term reads prev,
// never a partially updated value.
func (s *Stage) Step(prev state.Record, seed state.Seed, frame int, vp state.Viewport) (state.Record, bool) {
	p := s.params
	rot := prev.Rotation * degToRad
	f := float64(frame)

	var next state.Record
	respawn := Respawns(frame, seed)
	if respawn {
		angle := s.hash(f, float64(seed.Seed)) * 360 * degToRad
		radius := math.Min(vp.Width, vp.Height) * p.SpawnRadius
		next.PosX = math.Sin(angle)*radius + vp.Width/2
		next.PosY = math.Cos(angle)*radius + vp.Height/2
	} else {
		next.PosX = prev.PosX + math.Sin(rot)*prev.Speed*p.Drift
		next.PosY = prev.PosY + math.Cos(rot)*prev.Speed*p.Drift
	}

	k := p.RotationScale
	heading := s.field.Eval3(prev.PosX*k, prev.PosY*k, f*k) * 360
	next.Rotation = mix(prev.Rotation, heading, p.RotationBlend)

	forcing := s.field.Eval3(prev.PosX, prev.PosY, f)*0.5 + 0.5
	next.Speed = (prev.Speed + forcing) * p.SpeedDecay

	next.PosX = codec.Quantize(next.PosX)
	next.PosY = codec.Quantize(next.PosY)
	next.Rotation = codec.Quantize(next.Rotation)
	next.Speed = codec.Quantize(next.Speed)
	return next, respawn
}

// Run writes the successor of every record in prev into next.
func (s *Stage) Run(ctx context.Context, prev []state.Record, seeds []state.Seed, next []state.Record, frame int, vp state.Viewport) (Result, error) {
	n := len(prev)
	if len(seeds) != n || len(next) != n {
		return Result{}, fmt.Errorf("%w: prev %d, seeds %d, next %d", ErrLengthMismatch, n, len(seeds), len(next))
	}

	chunk := s.params.ChunkSize
	tasks := (n + chunk - 1) / chunk
	respawned := make([]int, tasks)

	workers := s.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := 0; t < tasks; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lo := t * chunk
			hi := min(lo+chunk, n)
			count := 0
			for i := lo; i < hi; i++ {
				var r bool
				next[i], r = s.Step(prev[i], seeds[i], frame, vp)
				if r {
					count++
				}
			}
			respawned[t] = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Particles: n}
	for _, c := range respawned {
		res.Respawned += c
	}
	return res, nil
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
