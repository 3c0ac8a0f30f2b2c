package mesh

import "github.com/go-gl/mathgl/mgl32"

// TexelAttribute names the per-vertex (x, y) texel coordinate that ties a
// particle quad to its state slot.
const TexelAttribute = "texel"

// ParticleGrid builds one quad (two triangles) per texel of a side x side
// particle grid. Each quad is centred on the origin with the given
// footprint; its UVs point at the texel centre inside a textureSize
// texture, and the TexelAttribute carries the integer texel coordinate.
func ParticleGrid(side, textureSize int, quadW, quadH float32) (*Descriptor, error) {
	b := NewBuilder("particle")

	p1 := mgl32.Vec2{-0.5 * quadW, -0.5 * quadH}
	p2 := mgl32.Vec2{+0.5 * quadW, -0.5 * quadH}
	p3 := mgl32.Vec2{+0.5 * quadW, +0.5 * quadH}
	p4 := mgl32.Vec2{-0.5 * quadW, +0.5 * quadH}

	texels := make([]float32, 0, side*side*6*2)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			uv := mgl32.Vec2{
				(float32(x) + 0.5) / float32(textureSize),
				(float32(y) + 0.5) / float32(textureSize),
			}
			b.AddTriangle(p1, p2, p3, uv, uv, uv)
			b.AddTriangle(p1, p3, p4, uv, uv, uv)

			for v := 0; v < 6; v++ {
				texels = append(texels, float32(x), float32(y))
			}
		}
	}

	if err := b.AddCustomAttribute(TexelAttribute, texels); err != nil {
		return nil, err
	}
	return b.Build()
}
