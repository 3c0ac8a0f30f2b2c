package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/steam/camera"
)

func TestOrient(t *testing.T) {
	top := mgl32.Vec2{50, 10}
	left := mgl32.Vec2{10, 60}
	right := mgl32.Vec2{90, 60}

	tests := []struct {
		name       string
		p0, p1, p2 mgl32.Vec2
	}{
		{"already ordered", top, left, right},
		{"reversed", top, right, left},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, c := orient(tt.p0, tt.p1, tt.p2)
			cross := (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
			if cross >= 0 {
				t.Errorf("orient(%v, %v, %v) = %v, %v, %v with cross %v", tt.p0, tt.p1, tt.p2, a, b, c, cross)
			}
		})
	}
}

func TestGray(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.3, 77},
		{1, 255},
		{2, 255},
	}
	for _, tt := range tests {
		if got := gray(tt.in); got.R != tt.want || got.G != tt.want || got.B != tt.want || got.A != 255 {
			t.Errorf("gray(%v) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRGBAPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	img.SetRGBA(0, 1, color.RGBA{R: 5, G: 6, B: 7, A: 8})

	buf := rgbaPixels(img, nil)
	if len(buf) != 4 {
		t.Fatalf("len = %d", len(buf))
	}
	if buf[1] != (color.RGBA{R: 1, G: 2, B: 3, A: 4}) || buf[2] != (color.RGBA{R: 5, G: 6, B: 7, A: 8}) {
		t.Errorf("pixels = %v", buf)
	}

	again := rgbaPixels(img, buf)
	if &again[0] != &buf[0] {
		t.Error("buffer not reused")
	}
}

func TestSourceRect(t *testing.T) {
	w := &Window{width: 200, height: 100}

	full := w.sourceRect()
	if full.X != 0 || full.Y != 0 || full.Width != 200 || full.Height != -100 {
		t.Errorf("full frame source = %+v", full)
	}

	// Zoom into the top-left quarter of the frame.
	w.View = camera.New(200, 100)
	w.View.SetZoom(2)
	w.View.Pan(-1000, -1000)
	got := w.sourceRect()
	if got.X != 0 || got.Y != 50 || got.Width != 100 || got.Height != -50 {
		t.Errorf("zoomed source = %+v", got)
	}
}
