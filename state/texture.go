package state

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/pthm-cable/steam/codec"
)

// ErrTextureSize is returned when a texture does not match its grid.
var ErrTextureSize = errors.New("state: texture size does not match grid")

// Quadrant identifies one side x side region of a state texture.
type Quadrant int

const (
	QuadPosX     Quadrant = iota // top-left
	QuadPosY                     // top-right
	QuadRotation                 // bottom-left
	QuadSpeed                    // bottom-right
)

// Origin returns the texel offset of quadrant q in a texture for the given grid side.
func (q Quadrant) Origin(side int) (x, y int) {
	switch q {
	case QuadPosY:
		return side, 0
	case QuadRotation:
		return 0, side
	case QuadSpeed:
		return side, side
	default:
		return 0, 0
	}
}

// Texture is a square state texture with normalised channels.
// A channel may hold 256/256, which an 8-bit image cannot represent,
// so the texture keeps floats and only converts on export.
type Texture struct {
	Size   int
	Texels []codec.Color
}

// NewTexture allocates an empty size x size texture.
func NewTexture(size int) *Texture {
	return &Texture{Size: size, Texels: make([]codec.Color, size*size)}
}

// At returns the texel at (x, y).
func (t *Texture) At(x, y int) codec.Color {
	return t.Texels[y*t.Size+x]
}

// Set writes the texel at (x, y).
func (t *Texture) Set(x, y int, c codec.Color) {
	t.Texels[y*t.Size+x] = c
}

// Image converts the texture to 8-bit RGBA with opaque alpha.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Size, t.Size))
	for y := 0; y < t.Size; y++ {
		for x := 0; x < t.Size; x++ {
			b := t.At(x, y).Bytes()
			img.SetRGBA(x, y, color.RGBA{R: b[0], G: b[1], B: b[2], A: 255})
		}
	}
	return img
}

// EncodeStateTexture lays records out in the four-quadrant texture:
// position x top-left, position y top-right, rotation bottom-left and
// speed bottom-right.
func EncodeStateTexture(records []Record, side int) (*Texture, error) {
	if len(records) != side*side {
		return nil, fmt.Errorf("%w: %d records for side %d", ErrTextureSize, len(records), side)
	}
	tex := NewTexture(2 * side)
	for i, r := range records {
		x, y := i%side, i/side
		put := func(q Quadrant, v float64) {
			ox, oy := q.Origin(side)
			tex.Set(ox+x, oy+y, codec.Encode(v))
		}
		put(QuadPosX, r.PosX)
		put(QuadPosY, r.PosY)
		put(QuadRotation, r.Rotation)
		put(QuadSpeed, r.Speed)
	}
	return tex, nil
}

// DecodeStateTexture reads records back from a four-quadrant texture.
func DecodeStateTexture(tex *Texture) ([]Record, error) {
	if tex.Size%2 != 0 || len(tex.Texels) != tex.Size*tex.Size {
		return nil, fmt.Errorf("%w: size %d", ErrTextureSize, tex.Size)
	}
	side := tex.Size / 2
	records := make([]Record, side*side)
	for i := range records {
		x, y := i%side, i/side
		get := func(q Quadrant) float64 {
			ox, oy := q.Origin(side)
			return codec.Decode(tex.At(ox+x, oy+y))
		}
		records[i] = Record{
			PosX:     get(QuadPosX),
			PosY:     get(QuadPosY),
			Rotation: get(QuadRotation),
			Speed:    get(QuadSpeed),
		}
	}
	return records, nil
}

// EncodeSeedTexture packs seeds into an 8-bit texture of size 2side:
// seed top-left, life offset bottom-left, life bottom-right. The
// top-right quadrant is unused and left black.
func EncodeSeedTexture(seeds []Seed, side int) (*image.RGBA, error) {
	if len(seeds) != side*side {
		return nil, fmt.Errorf("%w: %d seeds for side %d", ErrTextureSize, len(seeds), side)
	}
	img := image.NewRGBA(image.Rect(0, 0, 2*side, 2*side))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	for i, s := range seeds {
		x, y := i%side, i/side
		put := func(q Quadrant, v int) {
			ox, oy := q.Origin(side)
			b := codec.Pack3(v)
			img.SetRGBA(ox+x, oy+y, color.RGBA{R: b[0], G: b[1], B: b[2], A: 255})
		}
		put(QuadPosX, s.Seed)
		put(QuadRotation, s.LifeOffset)
		put(QuadSpeed, s.Life)
	}
	return img, nil
}

// DecodeSeedTexture reads seeds back from an image written by EncodeSeedTexture.
func DecodeSeedTexture(img *image.RGBA) ([]Seed, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() || b.Dx()%2 != 0 {
		return nil, fmt.Errorf("%w: bounds %v", ErrTextureSize, b)
	}
	side := b.Dx() / 2
	seeds := make([]Seed, side*side)
	for i := range seeds {
		x, y := i%side, i/side
		get := func(q Quadrant) int {
			ox, oy := q.Origin(side)
			c := img.RGBAAt(b.Min.X+ox+x, b.Min.Y+oy+y)
			return codec.Unpack3([3]uint8{c.R, c.G, c.B})
		}
		seeds[i] = Seed{
			Seed:       get(QuadPosX),
			LifeOffset: get(QuadRotation),
			Life:       get(QuadSpeed),
		}
	}
	return seeds, nil
}
