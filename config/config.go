// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sphere    SphereConfig    `yaml:"sphere"`
	Particles ParticlesConfig `yaml:"particles"`
	Force     ForceConfig     `yaml:"force"`
	Rotation  RotationConfig  `yaml:"rotation"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// SphereConfig describes the sphere the particles live on and its wireframe mesh.
type SphereConfig struct {
	Radius      float64 `yaml:"radius"`
	WireFactor  float64 `yaml:"wire_factor"` // Wireframe radius = Radius * this
	Rings       int     `yaml:"rings"`
	Slices      int     `yaml:"slices"`
	SpinPerTick float64 `yaml:"spin_per_tick"` // Radians about -Y applied to the mesh each tick
	Color       string  `yaml:"color"`         // Hex RGB, e.g. "057d9f"
}

// ParticlesConfig holds pool capacity and the initial population.
type ParticlesConfig struct {
	Max        int     `yaml:"max"`
	Min        int     `yaml:"min"`
	Initial    int     `yaml:"initial"`
	ParkFactor float64 `yaml:"park_factor"` // Parked points sit at Radius * this on -Z
	Seed       int64   `yaml:"seed"`        // Base seed for per-slot initial positions
	Size       float64 `yaml:"size"`        // Render size of a particle
}

// ForceConfig holds repulsion parameters.
type ForceConfig struct {
	MinIntensity      float64 `yaml:"min_intensity"`
	MaxIntensity      float64 `yaml:"max_intensity"`
	Intensity         float64 `yaml:"intensity"`
	Epsilon           float64 `yaml:"epsilon"`            // Pairs with squared distance below this are skipped
	DisplacementScale float64 `yaml:"displacement_scale"` // Displacement per unit force (0 = sphere radius)
}

// RotationConfig holds drag-rotation parameters.
type RotationConfig struct {
	Sensitivity float64 `yaml:"sensitivity"` // Radians per pixel of drag
}

// CameraConfig holds perspective camera parameters.
type CameraConfig struct {
	FovY           float64 `yaml:"fov_y"` // Degrees
	Near           float64 `yaml:"near"`
	Far            float64 `yaml:"far"`
	DistanceFactor float64 `yaml:"distance_factor"` // Eye sits at z = -Radius * this
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParkDistance      float64 // Sphere.Radius * Particles.ParkFactor
	DisplacementScale float64 // Force.DisplacementScale, or Sphere.Radius when unset
	WireRadius        float64 // Sphere.Radius * Sphere.WireFactor
	EyeDistance       float64 // Sphere.Radius * Camera.DistanceFactor
	SphereRGB         [3]uint8
}

// minParkFactor keeps parked points well outside the interaction volume.
const minParkFactor = 10.0

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with and
// clamps soft values into range.
func (c *Config) Validate() error {
	if c.Sphere.Radius <= 0 || math.IsNaN(c.Sphere.Radius) || math.IsInf(c.Sphere.Radius, 0) {
		return fmt.Errorf("sphere.radius must be positive, got %v", c.Sphere.Radius)
	}
	if c.Particles.Max < 0 {
		return fmt.Errorf("particles.max must not be negative, got %d", c.Particles.Max)
	}
	if c.Particles.Min < 0 || c.Particles.Min > c.Particles.Max {
		return fmt.Errorf("particles.min must be within [0, %d], got %d", c.Particles.Max, c.Particles.Min)
	}
	if c.Force.MinIntensity > c.Force.MaxIntensity {
		return fmt.Errorf("force.min_intensity %v exceeds force.max_intensity %v",
			c.Force.MinIntensity, c.Force.MaxIntensity)
	}

	// Soft clamps
	// Parked points must sit strictly beyond minParkFactor radii.
	if !(c.Particles.ParkFactor > minParkFactor) {
		c.Particles.ParkFactor = minParkFactor * 2
	}
	c.Particles.Initial = clampInt(c.Particles.Initial, c.Particles.Min, c.Particles.Max)
	c.Force.Intensity = clampFloat(c.Force.Intensity, c.Force.MinIntensity, c.Force.MaxIntensity)
	if c.Force.Epsilon <= 0 {
		c.Force.Epsilon = 1e-6
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
	return nil
}

// Apply validates a config whose fields were changed in code and
// recomputes its derived values.
func (c *Config) Apply() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ParkDistance = c.Sphere.Radius * c.Particles.ParkFactor
	c.Derived.DisplacementScale = c.Force.DisplacementScale
	if c.Derived.DisplacementScale <= 0 {
		c.Derived.DisplacementScale = c.Sphere.Radius
	}
	c.Derived.WireRadius = c.Sphere.Radius * c.Sphere.WireFactor
	c.Derived.EyeDistance = c.Sphere.Radius * c.Camera.DistanceFactor
	c.Derived.SphereRGB = parseHexRGB(c.Sphere.Color)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// parseHexRGB parses "rrggbb" (optionally prefixed with '#').
// Malformed input yields white.
func parseHexRGB(s string) [3]uint8 {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	var rgb [3]uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return [3]uint8{255, 255, 255}
	}
	return rgb
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
