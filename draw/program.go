// Package draw turns the current particle state into screen-space
// triangles and composites them additively.
package draw

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/steam/mesh"
	"github.com/pthm-cable/steam/state"
)

var (
	// ErrMissingTexel is returned when a mesh lacks the per-vertex texel attribute.
	ErrMissingTexel = errors.New("draw: mesh has no texel attribute")
	// ErrTexelRange is returned when a texel points outside the particle grid.
	ErrTexelRange = errors.New("draw: texel outside particle grid")
)

// Input is everything the vertex program reads for one frame.
// Records must be the store's current buffer.
type Input struct {
	Records  []state.Record
	Seeds    []state.Seed
	Side     int
	Frame    int
	Viewport state.Viewport
}

// Vertex is one transformed particle vertex in centre-origin coordinates.
type Vertex struct {
	Pos   mgl32.Vec2
	Alpha float32
}

// Program is the per-vertex particle transform plus the flat grey shade.
type Program struct {
	FadeBias  float64 // subtracted from the remaining-life fraction
	Intensity float32 // grey level at full alpha
}

// DefaultProgram returns the tuned fade and intensity.
func DefaultProgram() Program {
	return Program{FadeBias: 0.05, Intensity: 0.3}
}

// Alpha is the remaining-life fraction of a particle, biased down so it
// fades out just before respawning.
func (p Program) Alpha(frame int, seed state.Seed) float32 {
	phase := floorMod(frame-seed.LifeOffset, seed.Life)
	a := 1 - float64(phase)/float64(seed.Life) - p.FadeBias
	return float32(math.Max(0, math.Min(1, a)))
}

// Shade returns the grey level for an interpolated alpha.
func (p Program) Shade(alpha float32) float32 {
	return alpha * p.Intensity
}

// Vertex transforms one local quad vertex of the particle at texel.
func (p Program) Vertex(local mgl32.Vec2, texel [2]int, in Input) (Vertex, error) {
	x, y := texel[0], texel[1]
	if x < 0 || y < 0 || x >= in.Side || y >= in.Side {
		return Vertex{}, fmt.Errorf("%w: (%d, %d) in side %d", ErrTexelRange, x, y, in.Side)
	}
	i := y*in.Side + x
	rec := in.Records[i]

	rot := mgl32.Rotate2D(-mgl32.DegToRad(float32(rec.Rotation)))
	offset := mgl32.Vec2{
		float32(rec.PosX - in.Viewport.Width/2),
		float32(rec.PosY - in.Viewport.Height/2),
	}
	return Vertex{
		Pos:   rot.Mul2x1(local).Add(offset),
		Alpha: p.Alpha(in.Frame, in.Seeds[i]),
	}, nil
}

// Batch is one frame of transformed particle geometry.
type Batch struct {
	Viewport  state.Viewport
	Vertices  []Vertex
	Triangles [][3]uint32
	Shade     func(alpha float32) float32
}

// Run transforms every vertex of desc. A non-nil dst is reused to avoid
// reallocating the vertex slice each frame.
func (p Program) Run(desc *mesh.Descriptor, in Input, dst *Batch) (*Batch, error) {
	texels, ok := desc.Attribute(mesh.TexelAttribute)
	if !ok || texels.Size != 2 {
		return nil, ErrMissingTexel
	}
	if len(in.Records) != in.Side*in.Side || len(in.Seeds) != len(in.Records) {
		return nil, fmt.Errorf("%w: %d records, %d seeds for side %d", ErrTexelRange, len(in.Records), len(in.Seeds), in.Side)
	}

	if dst == nil {
		dst = &Batch{}
	}
	n := desc.VertexCount()
	if cap(dst.Vertices) < n {
		dst.Vertices = make([]Vertex, n)
	}
	dst.Vertices = dst.Vertices[:n]
	dst.Triangles = desc.Triangles
	dst.Viewport = in.Viewport
	dst.Shade = p.Shade

	for v := 0; v < n; v++ {
		t := texels.At(v)
		out, err := p.Vertex(desc.Vertices[v], [2]int{int(t[0]), int(t[1])}, in)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", v, err)
		}
		dst.Vertices[v] = out
	}
	return dst, nil
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
