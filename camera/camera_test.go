package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected camera at (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	minX, minY, maxX, maxY := cam.VisibleBounds()
	if minX != 0 || minY != 0 || maxX != 1280 || maxY != 720 {
		t.Errorf("expected whole frame visible, got (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestScreenToFrameRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(2.5)
	cam.Pan(100, -50)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}
	for _, tc := range testCases {
		fx, fy := cam.ScreenToFrame(tc.sx, tc.sy)
		sx, sy := cam.FrameToScreen(fx, fy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, fx, fy, sx, sy)
		}
	}
}

func TestPanAtUnitZoomIsClamped(t *testing.T) {
	cam := New(1280, 720)
	cam.Pan(200, 200)

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected pan to be ignored at zoom 1, got (%f, %f)", cam.X, cam.Y)
	}
}

func TestPanStaysInsideFrame(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(2)
	cam.Pan(-5000, 5000)

	minX, minY, maxX, maxY := cam.VisibleBounds()
	if minX != 0 || maxY != 720 {
		t.Errorf("expected view pinned to bottom-left edge, got (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
	if !near(maxX-minX, 640) || !near(maxY-minY, 360) {
		t.Errorf("visible size = %fx%f", maxX-minX, maxY-minY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom clamped to 1.0, got %f", cam.Zoom)
	}

	cam.SetZoom(20.0) // Above max
	if cam.Zoom != 8.0 {
		t.Errorf("expected zoom clamped to 8.0, got %f", cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(1280, 720)
	fx, fy := cam.ScreenToFrame(400, 300)

	cam.ZoomAt(400, 300, 2)

	sx, sy := cam.FrameToScreen(fx, fy)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("expected point to stay at (400, 300), got (%f, %f)", sx, sy)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestResizeKeepsRelativeCentre(t *testing.T) {
	cam := New(1000, 500)
	cam.SetZoom(4)
	cam.X, cam.Y = 250, 125

	cam.Resize(2000, 1000)

	if cam.X != 500 || cam.Y != 250 {
		t.Errorf("expected centre (500, 250), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(2.5)
	cam.Pan(100, 100)

	cam.Reset()

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected position (640, 360), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
