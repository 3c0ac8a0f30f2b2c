// Package renderer presents particle batches in a raylib window.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/steam/camera"
	"github.com/pthm-cable/steam/draw"
)

// ErrNoContext is returned when raylib could not create a window.
var ErrNoContext = errors.New("renderer: no graphics context")

// Window is a draw surface backed by a raylib window. Particles are drawn
// additively into an intermediate render texture, which is then copied
// onto the screen together with the optional overlay and the HUD.
type Window struct {
	title  string
	hidden bool

	width, height int32
	target        rl.RenderTexture2D
	ownsWindow    bool
	open          bool

	panels      [3]rl.Texture2D
	panelSize   int32
	panelLoaded bool
	pixels      []color.RGBA

	// View selects the part of the frame shown on screen. Nil shows the
	// whole frame.
	View *camera.Camera

	// OnDraw runs after the particles and overlay are on screen, before
	// the frame is swapped. Use it for the HUD.
	OnDraw func()
}

// NewWindow creates a closed window surface. A hidden window renders
// offscreen only.
func NewWindow(title string, hidden bool) *Window {
	return &Window{title: title, hidden: hidden}
}

// Open creates the window if none exists yet and allocates the
// intermediate target.
func (w *Window) Open(width, height int) error {
	if !rl.IsWindowReady() {
		if w.hidden {
			rl.SetConfigFlags(rl.FlagWindowHidden)
		} else {
			rl.SetConfigFlags(rl.FlagWindowResizable)
		}
		rl.InitWindow(int32(width), int32(height), w.title)
		if !rl.IsWindowReady() {
			return ErrNoContext
		}
		w.ownsWindow = true
	}
	if err := w.loadTarget(int32(width), int32(height)); err != nil {
		w.Close()
		return err
	}
	w.open = true
	return nil
}

func (w *Window) loadTarget(width, height int32) error {
	target := rl.LoadRenderTexture(width, height)
	if target.ID == 0 {
		return fmt.Errorf("%w: render target %dx%d", ErrNoContext, width, height)
	}
	w.target = target
	w.width, w.height = width, height
	return nil
}

// Resize replaces the intermediate target. The window itself is resized
// by the user; this only follows it.
func (w *Window) Resize(width, height int) error {
	if !w.open {
		return ErrNoContext
	}
	rl.UnloadRenderTexture(w.target)
	return w.loadTarget(int32(width), int32(height))
}

// Present draws one batch and the optional overlay.
func (w *Window) Present(b *draw.Batch, o *draw.Overlay) error {
	if !w.open {
		return ErrNoContext
	}
	shade := b.Shade
	if shade == nil {
		shade = draw.DefaultProgram().Shade
	}
	half := mgl32.Vec2{float32(w.width) / 2, float32(w.height) / 2}

	rl.BeginTextureMode(w.target)
	rl.ClearBackground(rl.Black)
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, tri := range b.Triangles {
		v0, v1, v2 := b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]]
		p0, p1, p2 := orient(v0.Pos.Add(half), v1.Pos.Add(half), v2.Pos.Add(half))
		rl.DrawTriangle(vec(p0), vec(p1), vec(p2), gray(shade(v0.Alpha)))
	}
	rl.EndBlendMode()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	dst := rl.Rectangle{Width: float32(w.width), Height: float32(w.height)}
	rl.DrawTexturePro(w.target.Texture, w.sourceRect(), dst, rl.Vector2{}, 0, rl.White)
	if o != nil {
		w.drawOverlay(o)
	}
	if w.OnDraw != nil {
		w.OnDraw()
	}
	rl.EndDrawing()
	return nil
}

// sourceRect returns the visible part of the target in texture space.
// Render textures are stored bottom-up, so the rectangle is flipped.
func (w *Window) sourceRect() rl.Rectangle {
	minX, minY, maxX, maxY := float32(0), float32(0), float32(w.width), float32(w.height)
	if w.View != nil {
		minX, minY, maxX, maxY = w.View.VisibleBounds()
	}
	return rl.Rectangle{
		X:      minX,
		Y:      float32(w.height) - maxY,
		Width:  maxX - minX,
		Height: -(maxY - minY),
	}
}

func (w *Window) drawOverlay(o *draw.Overlay) {
	panels := o.Panels()
	if len(panels) == 0 || panels[0] == nil {
		return
	}
	size := int32(panels[0].Bounds().Dx())
	if !w.panelLoaded || w.panelSize != size {
		w.unloadPanels()
		for i, p := range panels {
			img := rl.NewImageFromImage(p)
			w.panels[i] = rl.LoadTextureFromImage(img)
			rl.SetTextureFilter(w.panels[i], rl.FilterPoint)
			rl.UnloadImage(img)
		}
		w.panelSize = size
		w.panelLoaded = true
	}

	for i, p := range panels {
		if p == nil {
			continue
		}
		w.pixels = rgbaPixels(p, w.pixels)
		rl.UpdateTexture(w.panels[i], w.pixels)

		r := o.PanelRect(i)
		src := rl.Rectangle{Width: float32(size), Height: float32(size)}
		dst := rl.Rectangle{X: float32(r.Min.X), Y: float32(r.Min.Y), Width: float32(r.Dx()), Height: float32(r.Dy())}
		rl.DrawTexturePro(w.panels[i], src, dst, rl.Vector2{}, 0, rl.White)
	}
}

func (w *Window) unloadPanels() {
	if !w.panelLoaded {
		return
	}
	for i := range w.panels {
		rl.UnloadTexture(w.panels[i])
	}
	w.panelLoaded = false
}

// Capture reads the intermediate target back as an image.
func (w *Window) Capture() (*image.RGBA, error) {
	if !w.open {
		return nil, ErrNoContext
	}
	img := rl.LoadImageFromTexture(w.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	src := img.ToImage()
	out := image.NewRGBA(src.Bounds())
	for y := out.Rect.Min.Y; y < out.Rect.Max.Y; y++ {
		for x := out.Rect.Min.X; x < out.Rect.Max.X; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out, nil
}

// Close releases GPU resources and closes the window if Open created it.
func (w *Window) Close() error {
	if w.open {
		w.unloadPanels()
		rl.UnloadRenderTexture(w.target)
		w.open = false
	}
	if w.ownsWindow {
		rl.CloseWindow()
		w.ownsWindow = false
	}
	return nil
}

// orient returns the triangle in the counter-clockwise screen order
// raylib expects.
func orient(p0, p1, p2 mgl32.Vec2) (mgl32.Vec2, mgl32.Vec2, mgl32.Vec2) {
	cross := (p1.X()-p0.X())*(p2.Y()-p0.Y()) - (p1.Y()-p0.Y())*(p2.X()-p0.X())
	if cross > 0 {
		return p0, p2, p1
	}
	return p0, p1, p2
}

func gray(v float32) color.RGBA {
	g := uint8(min(max(v, 0), 1)*255 + 0.5)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

func vec(p mgl32.Vec2) rl.Vector2 {
	return rl.Vector2{X: p.X(), Y: p.Y()}
}

// rgbaPixels flattens img into buf, growing it if needed.
func rgbaPixels(img *image.RGBA, buf []color.RGBA) []color.RGBA {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if cap(buf) < n {
		buf = make([]color.RGBA, n)
	}
	buf = buf[:n]
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			buf[i] = color.RGBA{R: row[4*x], G: row[4*x+1], B: row[4*x+2], A: row[4*x+3]}
			i++
		}
	}
	return buf
}
