package main

import (
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/platonic/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the force parameters, bounded by the base config.
func NewParamVector(base *config.Config) *ParamVector {
	r := base.Sphere.Radius
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "intensity", Path: "force.intensity",
				Min: base.Force.MinIntensity, Max: base.Force.MaxIntensity,
				Default: base.Force.Intensity,
			},
			{
				Name: "displacement_scale", Path: "force.displacement_scale",
				Min: 0.1 * r, Max: 4 * r,
				Default: base.Derived.DisplacementScale,
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the starting values as a slice.
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

// FromResult returns the raw parameters at the optimizer's final point,
// or the starting values when the run produced no usable location.
func (pv *ParamVector) FromResult(result *optimize.Result) []float64 {
	if result == nil || len(result.X) != pv.Dim() {
		return pv.DefaultVector()
	}
	return pv.Clamp(pv.Denormalize(result.X))
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)
	cfg.Force.Intensity = clamped[0]
	cfg.Force.DisplacementScale = clamped[1]
	return cfg.Apply()
}
