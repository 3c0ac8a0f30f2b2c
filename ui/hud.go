package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steam/telemetry"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Title        string
	Frame        int
	Particles    int
	Respawned    int
	FPS          int32
	Overlay      bool
	ScreenWidth  int32
	ScreenHeight int32
}

// Actions are the HUD control results for one frame.
type Actions struct {
	Overlay bool
	Restart bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status lines and the controls in the bottom-left
// corner, which stays clear of the texture overlay.
func (h *HUD) Draw(data HUDData) Actions {
	x := int32(10)
	y := data.ScreenHeight - 110
	for _, line := range statusLines(data) {
		rl.DrawText(line, x, y, 16, rl.LightGray)
		y += 20
	}

	var actions Actions
	actions.Overlay = gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Texture overlay [T]",
		data.Overlay,
	)
	actions.Restart = gui.Button(
		rl.Rectangle{X: float32(x + 180), Y: float32(y - 4), Width: 100, Height: 24},
		"Restart [R]",
	)
	return actions
}

func statusLines(data HUDData) []string {
	return []string{
		data.Title,
		fmt.Sprintf("Particles: %s | Respawned: %s", formatCount(data.Particles), formatCount(data.Respawned)),
		fmt.Sprintf("Frame: %d | FPS: %d", data.Frame, data.FPS),
	}
}

// PerfPanel renders per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	rows := perfRows(stats)
	height := int32(len(rows)+3)*r.Theme.LineHeight + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Frame Timing")
	y = r.DrawLabelValue(x, y, "Total", stats.AvgFrameDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Capacity", fmt.Sprintf("%.0f fps", stats.Capacity))
	for _, row := range rows {
		y = r.DrawBar(x, y, row.Phase, float32(row.Pct/100), 0.5, row.Avg.Round(time.Microsecond).String(), p.width-2*r.Theme.Padding)
	}
}

type perfRow struct {
	Phase string
	Avg   time.Duration
	Pct   float64
}

// perfRows lists the phases that ran, in execution order.
func perfRows(stats telemetry.PerfStats) []perfRow {
	var rows []perfRow
	for _, phase := range telemetry.Phases() {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		rows = append(rows, perfRow{Phase: phase, Avg: avg, Pct: stats.PhasePct[phase]})
	}
	return rows
}
