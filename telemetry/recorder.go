package telemetry

import (
	"github.com/pthm-cable/steam/state"
)

// Recorder feeds frames into a Collector and writes every flushed window
// to the output manager and, optionally, the log.
type Recorder struct {
	collector *Collector
	output    *OutputManager
	alpha     AlphaFunc
	logStats  bool

	windows int
}

// NewRecorder creates a recorder. output may be nil to skip CSV output.
func NewRecorder(collector *Collector, output *OutputManager, alpha AlphaFunc, logStats bool) *Recorder {
	return &Recorder{
		collector: collector,
		output:    output,
		alpha:     alpha,
		logStats:  logStats,
	}
}

// Observe records one frame. perf is only called when a window closes.
// It reports whether a window was flushed.
func (r *Recorder) Observe(frame, respawned int, records []state.Record, seeds []state.Seed, vp state.Viewport, perf func() PerfStats) (bool, error) {
	r.collector.RecordRespawns(respawned)
	if !r.collector.ShouldFlush(frame) {
		return false, nil
	}

	stats := r.collector.Flush(frame, records, seeds, vp, r.alpha)
	r.windows++
	if err := r.output.WriteStats(stats); err != nil {
		return true, err
	}

	var ps PerfStats
	if perf != nil {
		ps = perf()
		if err := r.output.WritePerf(ps, frame); err != nil {
			return true, err
		}
	}

	if r.logStats {
		stats.LogStats()
		if perf != nil {
			ps.LogStats()
		}
	}
	return true, nil
}

// Windows returns how many windows have been flushed.
func (r *Recorder) Windows() int {
	return r.windows
}
