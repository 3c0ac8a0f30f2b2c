// Package camera provides a 2D pan and zoom view over the rendered frame.
package camera

// Camera controls which part of the frame is shown on screen. The frame
// and the screen have the same size; at zoom 1 the whole frame is visible
// and panning has no effect.
type Camera struct {
	// Position is the view centre in frame pixels
	X, Y float32

	// Zoom level (1.0 = whole frame, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen and frame size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole frame.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		X:         viewportW / 2,
		Y:         viewportH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// FrameToScreen converts frame coordinates to screen coordinates.
func (c *Camera) FrameToScreen(fx, fy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (fx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (fy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToFrame converts screen coordinates to frame coordinates.
func (c *Camera) ScreenToFrame(sx, sy float32) (fx, fy float32) {
	fx = c.X + (sx-c.ViewportW/2)/c.Zoom
	fy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return fx, fy
}

// Resize updates viewport dimensions, keeping the view centre at the same
// relative position.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.X *= viewportW / c.ViewportW
	c.Y *= viewportH / c.ViewportH
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCentre()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCentre()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCentre()
}

// ZoomAt multiplies the zoom by factor while keeping the frame point under
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	fx, fy := c.ScreenToFrame(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = fx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = fy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCentre()
}

// Reset returns the camera to the whole-frame view.
func (c *Camera) Reset() {
	c.X = c.ViewportW / 2
	c.Y = c.ViewportH / 2
	c.Zoom = 1.0
}

// VisibleBounds returns the frame-coordinate bounds of the visible area.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCentre keeps the visible area inside the frame.
func (c *Camera) clampCentre() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clamp(c.X, halfW, c.ViewportW-halfW)
	c.Y = clamp(c.Y, halfH, c.ViewportH-halfH)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
