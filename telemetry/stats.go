package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle statistics for a window of frames.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	Particles int `csv:"particles"`
	Respawns  int `csv:"respawns"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Visible fraction
	AlphaMean float64 `csv:"alpha_mean"`
	OnScreen  float64 `csv:"on_screen"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, standard deviation and empirical percentiles.
// The input is not modified. An empty sample yields zeros.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("particles", s.Particles),
		slog.Int("respawns", s.Respawns),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("alpha_mean", s.AlphaMean),
		slog.Float64("on_screen", s.OnScreen),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"particles", s.Particles,
		"respawns", s.Respawns,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"alpha_mean", s.AlphaMean,
		"on_screen", s.OnScreen,
	)
}
