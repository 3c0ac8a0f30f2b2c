package main

import (
	"github.com/pthm-cable/steam/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable look parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "intensity", Path: "draw.intensity", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "fade_bias", Path: "draw.fade_bias", Min: 0.0, Max: 0.5, Default: 0.05},
			{Name: "spawn_radius", Path: "spawn.radius", Min: 0.1, Max: 1.0, Default: 0.56},
			{Name: "speed_decay", Path: "motion.speed_decay", Min: 0.5, Max: 0.99, Default: 0.9},
			{Name: "drift", Path: "motion.drift", Min: 0.0005, Max: 0.02, Default: 0.003},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Draw.Intensity = clamped[0]
	cfg.Draw.FadeBias = clamped[1]
	cfg.Spawn.Radius = clamped[2]
	cfg.Motion.SpeedDecay = clamped[3]
	cfg.Motion.Drift = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Draw.Intensity,
		cfg.Draw.FadeBias,
		cfg.Spawn.Radius,
		cfg.Motion.SpeedDecay,
		cfg.Motion.Drift,
	}
}
