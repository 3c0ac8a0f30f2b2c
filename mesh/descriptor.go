package mesh

import "github.com/go-gl/mathgl/mgl32"

// Descriptor is a static, backend-agnostic mesh: parallel per-vertex
// arrays plus triangle indices and named custom attributes.
type Descriptor struct {
	Name       string
	Vertices   []mgl32.Vec2
	Colors     []mgl32.Vec4
	UVs        []mgl32.Vec2
	Triangles  [][3]uint32
	Attributes []Attribute
}

// Attribute is a flat per-vertex payload with Size values per vertex.
type Attribute struct {
	Name string
	Size int
	Data []float32
}

// VertexCount returns the number of vertices.
func (d *Descriptor) VertexCount() int {
	return len(d.Vertices)
}

// TriangleCount returns the number of triangles.
func (d *Descriptor) TriangleCount() int {
	return len(d.Triangles)
}

// Attribute looks up a custom attribute by name.
func (d *Descriptor) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// At returns the values of attribute a for vertex i.
func (a Attribute) At(i int) []float32 {
	return a.Data[i*a.Size : (i+1)*a.Size]
}
