package draw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrCanvasClosed is returned when presenting to a canvas that is not open.
	ErrCanvasClosed = errors.New("draw: canvas not open")
	// ErrCanvasSize is returned for a non-positive canvas size.
	ErrCanvasSize = errors.New("draw: invalid canvas size")
)

// Canvas is a software surface. Particles are added into a float
// intermediate target which is then copied once onto the final image.
// It backs headless runs, tests and PNG export.
type Canvas struct {
	width, height int
	target        []float32
	final         *image.RGBA
	frames        int
}

// NewCanvas returns a closed canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Open allocates the intermediate target and the final image.
func (c *Canvas) Open(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrCanvasSize, width, height)
	}
	c.width, c.height = width, height
	c.target = make([]float32, width*height)
	c.final = image.NewRGBA(image.Rect(0, 0, width, height))
	c.frames = 0
	return nil
}

// Resize reallocates both surfaces at the new size.
func (c *Canvas) Resize(width, height int) error {
	if c.final == nil {
		return ErrCanvasClosed
	}
	frames := c.frames
	if err := c.Open(width, height); err != nil {
		return err
	}
	c.frames = frames
	return nil
}

// Close releases the surfaces.
func (c *Canvas) Close() error {
	c.target = nil
	c.final = nil
	return nil
}

// Size returns the current surface size.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Frames returns how many batches have been presented.
func (c *Canvas) Frames() int {
	return c.frames
}

// Image returns the final surface. It is overwritten by the next Present.
func (c *Canvas) Image() *image.RGBA {
	return c.final
}

// Present clears the intermediate target, composites the batch additively
// and copies the result onto the final image. A non-nil overlay is drawn
// on top of the particles.
func (c *Canvas) Present(b *Batch, o *Overlay) error {
	if c.final == nil {
		return ErrCanvasClosed
	}
	clear(c.target)

	shade := b.Shade
	if shade == nil {
		shade = DefaultProgram().Shade
	}
	half := mgl32.Vec2{float32(c.width) / 2, float32(c.height) / 2}
	for _, tri := range b.Triangles {
		v0, v1, v2 := b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]]
		c.fill(v0.Pos.Add(half), v1.Pos.Add(half), v2.Pos.Add(half), v0.Alpha, v1.Alpha, v2.Alpha, shade)
	}

	for i, v := range c.target {
		g := uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
		c.final.Pix[4*i+0] = g
		c.final.Pix[4*i+1] = g
		c.final.Pix[4*i+2] = g
		c.final.Pix[4*i+3] = 255
	}
	if o != nil {
		o.composite(c.final)
	}
	c.frames++
	return nil
}

// At returns the final pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	return c.final.RGBAAt(x, y)
}

// fill rasterises one triangle in pixel space, sampling at pixel centres
// with a top-left fill rule so shared edges are covered exactly once.
func (c *Canvas) fill(p0, p1, p2 mgl32.Vec2, a0, a1, a2 float32, shade func(float32) float32) {
	area := edge(p0, p1, p2)
	if area == 0 {
		return
	}
	if area < 0 {
		p1, p2 = p2, p1
		a1, a2 = a2, a1
		area = -area
	}

	minX := max(0, int(math.Floor(float64(min(p0.X(), p1.X(), p2.X())))))
	maxX := min(c.width-1, int(math.Ceil(float64(max(p0.X(), p1.X(), p2.X())))))
	minY := max(0, int(math.Floor(float64(min(p0.Y(), p1.Y(), p2.Y())))))
	maxY := min(c.height-1, int(math.Ceil(float64(max(p0.Y(), p1.Y(), p2.Y())))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(p1, p2, p)
			w1 := edge(p2, p0, p)
			w2 := edge(p0, p1, p)
			if !covers(w0, p1, p2) || !covers(w1, p2, p0) || !covers(w2, p0, p1) {
				continue
			}
			alpha := (w0*a0 + w1*a1 + w2*a2) / area
			c.target[y*c.width+x] += shade(alpha)
		}
	}
}

func edge(a, b, p mgl32.Vec2) float32 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

// covers applies the top-left rule for positive-area triangles in a
// y-down pixel grid.
func covers(w float32, a, b mgl32.Vec2) bool {
	if w > 0 {
		return true
	}
	if w < 0 {
		return false
	}
	d := b.Sub(a)
	top := d.Y() == 0 && d.X() < 0
	left := d.Y() > 0
	return top || left
}
