package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAddTriangleCounts(t *testing.T) {
	for _, k := range []int{0, 1, 2, 7, 100} {
		b := NewBuilder("tri")
		for i := 0; i < k; i++ {
			b.AddTriangle(
				mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1},
				DefaultUV1, DefaultUV2, DefaultUV3,
			)
		}
		d, err := b.Build()
		if err != nil {
			t.Fatalf("k=%d: Build: %v", k, err)
		}
		if d.VertexCount() != 3*k || len(d.UVs) != 3*k || len(d.Colors) != 3*k {
			t.Errorf("k=%d: got %d verts, %d uvs, %d colors", k, d.VertexCount(), len(d.UVs), len(d.Colors))
		}
		if d.TriangleCount() != k {
			t.Errorf("k=%d: got %d triangles", k, d.TriangleCount())
		}
		for i, tri := range d.Triangles {
			base := uint32(3 * i)
			if tri != [3]uint32{base, base + 1, base + 2} {
				t.Errorf("k=%d: triangle %d = %v, want contiguous from %d", k, i, tri, base)
			}
		}
		for i, c := range d.Colors {
			if c != White {
				t.Errorf("k=%d: color %d = %v, want white", k, i, c)
			}
		}
	}
}

func TestAddRegularShape(t *testing.T) {
	b := NewBuilder("square")
	if err := b.AddRegularShape(mgl32.Vec2{10, 20}, 5, 4, 0); err != nil {
		t.Fatalf("AddRegularShape: %v", err)
	}
	d, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if d.TriangleCount() != 4 || d.VertexCount() != 12 {
		t.Fatalf("got %d triangles, %d verts", d.TriangleCount(), d.VertexCount())
	}

	for i := 0; i < 4; i++ {
		center := d.Vertices[3*i]
		if center != (mgl32.Vec2{10, 20}) {
			t.Errorf("triangle %d centre = %v", i, center)
		}
		for _, v := range d.Vertices[3*i+1 : 3*i+3] {
			dist := v.Sub(center).Len()
			if math.Abs(float64(dist-5)) > 1e-4 {
				t.Errorf("triangle %d rim vertex %v at distance %v", i, v, dist)
			}
		}
		if d.UVs[3*i] != (mgl32.Vec2{0.5, 0.5}) {
			t.Errorf("top-down centre uv = %v", d.UVs[3*i])
		}
	}

	// First rim point sits straight along +y.
	first := d.Vertices[1]
	if math.Abs(float64(first.X()-10)) > 1e-4 || math.Abs(float64(first.Y()-25)) > 1e-4 {
		t.Errorf("first rim vertex = %v, want (10, 25)", first)
	}
	// Its top-down uv is the middle of the top edge of the bounding box.
	if uv := d.UVs[1]; math.Abs(float64(uv.X()-0.5)) > 1e-4 || math.Abs(float64(uv.Y()-1)) > 1e-4 {
		t.Errorf("first rim uv = %v, want (0.5, 1)", uv)
	}
}

func TestAddRegularShapeCenterUV(t *testing.T) {
	b := NewBuilder("hex")
	b.SetUVMode(UVCenter)
	if err := b.AddRegularShape(mgl32.Vec2{}, 1, 6, 30); err != nil {
		t.Fatal(err)
	}
	d, _ := b.Build()
	for i := 0; i < 6; i++ {
		if d.UVs[3*i] != (mgl32.Vec2{0, 0}) {
			t.Errorf("centre uv %d = %v", i, d.UVs[3*i])
		}
		want2 := mgl32.Vec2{float32(i) / 6, 1}
		want3 := mgl32.Vec2{float32(i+1) / 6, 1}
		if d.UVs[3*i+1] != want2 || d.UVs[3*i+2] != want3 {
			t.Errorf("rim uvs %d = %v %v", i, d.UVs[3*i+1], d.UVs[3*i+2])
		}
	}
}

func TestAddRegularShapeRejectsDegenerate(t *testing.T) {
	b := NewBuilder("bad")
	err := b.AddRegularShape(mgl32.Vec2{}, 1, 2, 0)
	if !errors.Is(err, ErrEdgeCount) {
		t.Fatalf("expected ErrEdgeCount, got %v", err)
	}
	if b.VertexCount() != 0 {
		t.Errorf("failed call added %d vertices", b.VertexCount())
	}
}

func TestFullScreenTriangleCoversViewport(t *testing.T) {
	const w, h = 640, 480
	b := NewBuilder("screen")
	b.AddFullScreenTriangle(w, h)
	d, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if d.TriangleCount() != 1 {
		t.Fatalf("got %d triangles", d.TriangleCount())
	}

	a, bb, c := d.Vertices[0], d.Vertices[1], d.Vertices[2]
	// Centre-origin viewport corners and a few interior points.
	points := []mgl32.Vec2{
		{-w / 2, -h / 2}, {w / 2, -h / 2}, {w / 2, h / 2}, {-w / 2, h / 2},
		{0, 0}, {100, -100}, {-300, 200},
	}
	for _, p := range points {
		if !insideTriangle(p, a, bb, c) {
			t.Errorf("point %v not covered", p)
		}
	}
}

func TestCustomAttribute(t *testing.T) {
	b := NewBuilder("attr")
	b.AddTriangle(mgl32.Vec2{}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, DefaultUV1, DefaultUV2, DefaultUV3)

	if err := b.AddCustomAttribute("weight", []float32{1, 2, 3}); err != nil {
		t.Fatalf("one value per vertex: %v", err)
	}
	if err := b.AddCustomAttribute("pair", []float32{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("two values per vertex: %v", err)
	}

	err := b.AddCustomAttribute("broken", []float32{1, 2})
	if !errors.Is(err, ErrAttributeSize) {
		t.Fatalf("expected ErrAttributeSize, got %v", err)
	}

	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := d.Attribute("broken"); ok {
		t.Error("rejected attribute should not be recorded")
	}
	pair, ok := d.Attribute("pair")
	if !ok || pair.Size != 2 {
		t.Fatalf("pair attribute = %+v, %v", pair, ok)
	}
	if got := pair.At(2); got[0] != 5 || got[1] != 6 {
		t.Errorf("pair.At(2) = %v", got)
	}
}

func TestCustomAttributeWithoutVertices(t *testing.T) {
	b := NewBuilder("empty")
	if err := b.AddCustomAttribute("x", []float32{1}); !errors.Is(err, ErrAttributeSize) {
		t.Fatalf("expected ErrAttributeSize, got %v", err)
	}
}

func TestBuildRevalidatesAfterGrowth(t *testing.T) {
	b := NewBuilder("grow")
	b.AddTriangle(mgl32.Vec2{}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, DefaultUV1, DefaultUV2, DefaultUV3)
	if err := b.AddCustomAttribute("w", []float32{1, 1, 1}); err != nil {
		t.Fatal(err)
	}
	// Three more triangles: 12 vertices, 3 attribute values.
	b.AddTriangle(mgl32.Vec2{}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, DefaultUV1, DefaultUV2, DefaultUV3)
	b.AddTriangle(mgl32.Vec2{}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, DefaultUV1, DefaultUV2, DefaultUV3)
	b.AddTriangle(mgl32.Vec2{}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, DefaultUV1, DefaultUV2, DefaultUV3)

	if _, err := b.Build(); !errors.Is(err, ErrAttributeSize) {
		t.Fatalf("expected ErrAttributeSize from Build, got %v", err)
	}
}

func insideTriangle(p, a, b, c mgl32.Vec2) bool {
	const eps = 1e-3
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < -eps || d2 < -eps || d3 < -eps
	hasPos := d1 > eps || d2 > eps || d3 > eps
	return !(hasNeg && hasPos)
}

func cross(p, a, b mgl32.Vec2) float32 {
	return (p.X()-b.X())*(a.Y()-b.Y()) - (a.X()-b.X())*(p.Y()-b.Y())
}
