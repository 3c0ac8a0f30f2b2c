package telemetry

import (
	"github.com/pthm-cable/steam/state"
)

// AlphaFunc returns the draw alpha of a particle on a frame.
type AlphaFunc func(frame int, seed state.Seed) float32

// Collector accumulates per-frame events within windows and produces WindowStats.
type Collector struct {
	windowFrames int
	windowStart  int
	respawns     int

	speeds []float64
}

// NewCollector creates a new stats collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: windowFrames}
}

// RecordRespawns adds the respawn count of one frame.
func (c *Collector) RecordRespawns(n int) {
	c.respawns += n
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush samples the current records, produces a WindowStats and resets
// counters for the next window.
func (c *Collector) Flush(frame int, records []state.Record, seeds []state.Seed, vp state.Viewport, alpha AlphaFunc) WindowStats {
	if cap(c.speeds) < len(records) {
		c.speeds = make([]float64, len(records))
	}
	c.speeds = c.speeds[:len(records)]

	var alphaSum float64
	onScreen := 0
	for i, r := range records {
		c.speeds[i] = r.Speed
		if alpha != nil {
			alphaSum += float64(alpha(frame, seeds[i]))
		}
		if r.PosX >= 0 && r.PosX < vp.Width && r.PosY >= 0 && r.PosY < vp.Height {
			onScreen++
		}
	}

	d := Summarize(c.speeds)
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   frame,
		Particles:   len(records),
		Respawns:    c.respawns,
		SpeedMean:   d.Mean,
		SpeedStd:    d.Std,
		SpeedP10:    d.P10,
		SpeedP50:    d.P50,
		SpeedP90:    d.P90,
	}
	if n := len(records); n > 0 {
		stats.AlphaMean = alphaSum / float64(n)
		stats.OnScreen = float64(onScreen) / float64(n)
	}

	c.windowStart = frame
	c.respawns = 0
	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}
