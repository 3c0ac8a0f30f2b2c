// Noise field preview tool - interactive view of the heading field that
// steers particles, with sliders for the motion parameters.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/config"
	"github.com/pthm-cable/steam/sim"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	arrowStep    = 8
)

// FieldParams are the motion parameters the preview exposes.
type FieldParams struct {
	RotationScale float32
	Extent        float32 // world pixels covered by the preview
	Seed          int64
}

func defaultParams() FieldParams {
	cfg := config.Cfg().Motion
	return FieldParams{
		RotationScale: float32(cfg.RotationScale),
		Extent:        1280,
		Seed:          cfg.NoiseSeed,
	}
}

func main() {
	config.MustInit("")

	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field := sim.NewSimplexField(params.Seed)

	headings := make([]float32, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	frame := 0
	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			frame++
			needsRegen = true
		}
		if needsRegen {
			generateHeadings(headings, gridSize, field, params, frame)
			updateTexture(texture, headings)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawArrows(headings)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Frame: %d", frame), 15, statsY, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Heading Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Rotation scale (noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.0001", "0.01",
			params.RotationScale, 0.0001, 0.01,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.RotationScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.RotationScale {
			params.RotationScale = newScale
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Extent (world pixels)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newExtent := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"128", "4096",
			params.Extent, 128, 4096,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Extent), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newExtent != params.Extent {
			params.Extent = newExtent
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Noise seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			field = sim.NewSimplexField(params.Seed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Frame") {
			frame = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			field = sim.NewSimplexField(params.Seed)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			field = sim.NewSimplexField(params.Seed)
			frame = 0
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := motionYAML(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yaml {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func motionYAML(p FieldParams) []string {
	return []string{
		"motion:",
		fmt.Sprintf("  rotation_scale: %.4f", p.RotationScale),
		fmt.Sprintf("  noise_seed: %d", p.Seed),
	}
}

// generateHeadings fills grid with the target heading in degrees, the
// value particle rotation is blended towards at each sample point.
func generateHeadings(grid []float32, size int, field sim.Field, p FieldParams, frame int) {
	scale := float64(p.RotationScale)
	step := float64(p.Extent) / float64(size)
	for y := 0; y < size; y++ {
		wy := (float64(y) + 0.5) * step
		for x := 0; x < size; x++ {
			wx := (float64(x) + 0.5) * step
			grid[y*size+x] = float32(field.Eval3(wx*scale, wy*scale, float64(frame)*scale) * 360)
		}
	}
}

// drawArrows overlays the drift direction on a coarse grid.
func drawArrows(grid []float32) {
	cell := float32(previewSize) / gridSize
	for y := arrowStep / 2; y < gridSize; y += arrowStep {
		for x := arrowStep / 2; x < gridSize; x += arrowStep {
			rad := float64(grid[y*gridSize+x]) * math.Pi / 180
			cx := 10 + (float32(x)+0.5)*cell
			cy := 10 + (float32(y)+0.5)*cell
			l := cell * arrowStep * 0.4
			end := rl.Vector2{X: cx + float32(math.Sin(rad))*l, Y: cy + float32(math.Cos(rad))*l}
			rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, end, rl.Black)
			rl.DrawCircleV(end, 1.5, rl.Black)
		}
	}
}

// updateTexture colours each heading by its angle.
func updateTexture(texture rl.Texture2D, grid []float32) {
	pixels := make([]color.RGBA, len(grid))
	for i, deg := range grid {
		hue := float32(math.Mod(float64(deg), 360))
		if hue < 0 {
			hue += 360
		}
		c := rl.ColorFromHSV(hue, 0.6, 0.9)
		pixels[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
