// Package mesh accumulates indexed triangle meshes and emits a
// backend-agnostic Descriptor. The builder holds no GPU resources; a
// renderer uploads the descriptor however it likes.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UVMode selects how AddRegularShape assigns texture coordinates.
type UVMode uint8

const (
	// UVCenter maps the centre to (0,0) and spreads the rim along u.
	UVCenter UVMode = iota
	// UVTopDown projects every vertex onto the shape's bounding box.
	UVTopDown
)

var (
	// ErrAttributeSize is returned when a custom attribute payload does not
	// divide evenly across the vertices.
	ErrAttributeSize = errors.New("mesh: attribute payload does not match vertex count")
	// ErrEdgeCount is returned for polygons with fewer than three edges.
	ErrEdgeCount = errors.New("mesh: regular shape needs at least 3 edges")
)

// White is the default per-vertex colour.
var White = mgl32.Vec4{1, 1, 1, 1}

// Default UVs used when AddTriangle callers have no mapping of their own.
var (
	DefaultUV1 = mgl32.Vec2{0, 1}
	DefaultUV2 = mgl32.Vec2{1, 0}
	DefaultUV3 = mgl32.Vec2{1, 1}
)

// Builder accumulates triangles. Every triangle contributes three fresh
// vertices; nothing is deduplicated.
type Builder struct {
	name      string
	uvMode    UVMode
	verts     []mgl32.Vec2
	colors    []mgl32.Vec4
	uvs       []mgl32.Vec2
	triangles [][3]uint32

	attrOrder []string
	attrs     map[string][]float32
}

// NewBuilder creates an empty builder. The UV mode defaults to UVTopDown.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:   name,
		uvMode: UVTopDown,
		attrs:  make(map[string][]float32),
	}
}

// SetUVMode changes the mapping used by subsequent AddRegularShape calls.
func (b *Builder) SetUVMode(mode UVMode) {
	b.uvMode = mode
}

// VertexCount returns the number of vertices added so far.
func (b *Builder) VertexCount() int {
	return len(b.verts)
}

// AddTriangle appends one triangle made of three new vertices.
func (b *Builder) AddTriangle(p1, p2, p3, uv1, uv2, uv3 mgl32.Vec2) {
	base := uint32(len(b.verts))
	b.verts = append(b.verts, p1, p2, p3)
	b.colors = append(b.colors, White, White, White)
	b.uvs = append(b.uvs, uv1, uv2, uv3)
	b.triangles = append(b.triangles, [3]uint32{base, base + 1, base + 2})
}

// AddRegularShape fan-triangulates a regular polygon into edgeCount
// triangles. rotation is in degrees; vertex i sits at angle
// i/edgeCount*360 + rotation measured from +y towards +x.
func (b *Builder) AddRegularShape(center mgl32.Vec2, radius float32, edgeCount int, rotation float32) error {
	if edgeCount < 3 {
		return fmt.Errorf("%w: got %d", ErrEdgeCount, edgeCount)
	}

	minX, maxX := center.X()-radius, center.X()+radius
	minY, maxY := center.Y()-radius, center.Y()+radius

	for i := 0; i < edgeCount; i++ {
		a2 := float64(i)/float64(edgeCount)*360 + float64(rotation)
		a3 := float64(i+1)/float64(edgeCount)*360 + float64(rotation)

		p2 := rimPoint(center, radius, a2)
		p3 := rimPoint(center, radius, a3)

		var uv1, uv2, uv3 mgl32.Vec2
		switch b.uvMode {
		case UVCenter:
			uv1 = mgl32.Vec2{0, 0}
			uv2 = mgl32.Vec2{float32(i) / float32(edgeCount), 1}
			uv3 = mgl32.Vec2{float32(i+1) / float32(edgeCount), 1}
		default:
			uv1 = mgl32.Vec2{0.5, 0.5}
			uv2 = mgl32.Vec2{inverseLerp(minX, maxX, p2.X()), inverseLerp(minY, maxY, p2.Y())}
			uv3 = mgl32.Vec2{inverseLerp(minX, maxX, p3.X()), inverseLerp(minY, maxY, p3.Y())}
		}

		b.AddTriangle(center, p2, p3, uv1, uv2, uv3)
	}
	return nil
}

// AddFullScreenTriangle appends one oversized triangle whose interior
// covers the whole [0,width]x[0,height] rectangle once the viewport origin
// sits at its centre. Covering with one triangle avoids a quad's diagonal
// seam when every destination texel must be visited exactly once.
func (b *Builder) AddFullScreenTriangle(width, height float32) {
	b.AddTriangle(
		mgl32.Vec2{-0.5 * width, 0.5 * height},
		mgl32.Vec2{-0.5 * width, -1.5 * height},
		mgl32.Vec2{1.5 * width, 0.5 * height},
		mgl32.Vec2{0, 0},
		mgl32.Vec2{0, 2},
		mgl32.Vec2{2, 0},
	)
}

// AddCustomAttribute appends data to the named per-vertex attribute.
// The accumulated payload must be a whole multiple of the current vertex
// count; otherwise nothing is appended and ErrAttributeSize is returned.
func (b *Builder) AddCustomAttribute(name string, data []float32) error {
	n := len(b.verts)
	total := len(b.attrs[name]) + len(data)
	if n == 0 || total == 0 || total%n != 0 {
		return fmt.Errorf("%w: %q has %d values for %d vertices", ErrAttributeSize, name, total, n)
	}

	if _, ok := b.attrs[name]; !ok {
		b.attrOrder = append(b.attrOrder, name)
	}
	b.attrs[name] = append(b.attrs[name], data...)
	return nil
}

// Build validates the accumulated data and returns a descriptor. The
// builder may keep being used; the descriptor does not alias its slices.
func (b *Builder) Build() (*Descriptor, error) {
	n := len(b.verts)
	d := &Descriptor{
		Name:      b.name,
		Vertices:  append([]mgl32.Vec2(nil), b.verts...),
		Colors:    append([]mgl32.Vec4(nil), b.colors...),
		UVs:       append([]mgl32.Vec2(nil), b.uvs...),
		Triangles: append([][3]uint32(nil), b.triangles...),
	}

	for _, name := range b.attrOrder {
		data := b.attrs[name]
		if n == 0 || len(data)%n != 0 {
			return nil, fmt.Errorf("%w: %q has %d values for %d vertices", ErrAttributeSize, name, len(data), n)
		}
		d.Attributes = append(d.Attributes, Attribute{
			Name: name,
			Size: len(data) / n,
			Data: append([]float32(nil), data...),
		})
	}
	return d, nil
}

func rimPoint(center mgl32.Vec2, radius float32, deg float64) mgl32.Vec2 {
	rad := mgl32.DegToRad(float32(deg))
	return mgl32.Vec2{
		center.X() + float32(math.Sin(float64(rad)))*radius,
		center.Y() + float32(math.Cos(float64(rad)))*radius,
	}
}

func inverseLerp(lo, hi, v float32) float32 {
	return (v - lo) / (hi - lo)
}
