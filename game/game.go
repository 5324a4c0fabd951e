// Package game drives the simulation: particle pool, force field, drag
// rotation and the scene graph, ticked once per frame by a host.
package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/camera"
	"github.com/pthm-cable/platonic/config"
	"github.com/pthm-cable/platonic/scene"
	"github.com/pthm-cable/platonic/systems"
	"github.com/pthm-cable/platonic/telemetry"
	"github.com/pthm-cable/platonic/ui"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64          // 0 = particles.seed from config
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config

	pool     *systems.ParticlePool
	forces   *systems.ForceField
	rotation *systems.RotationAccumulator
	scene    *scene.Scene
	camera   *camera.Camera

	intensity      float64
	tick           int32
	stepsPerUpdate int
	headless       bool
	darkBackground bool

	// Graphical host state
	controls     *ui.ControlsPanel
	pending      ui.Actions
	lastMouseX   float32
	lastMouseY   float32
	screenWidth  float32
	screenHeight float32

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	activeBuf     []r3.Vec
	parkedBuf     []r3.Vec
}

// NewGameWithOptions creates a game. In headless mode no raylib call is made.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Particles.Seed
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	radius := cfg.Sphere.Radius
	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)

	g := &Game{
		cfg:            cfg,
		pool:           systems.NewParticlePool(cfg.Particles.Max, cfg.Particles.Min, radius, cfg.Derived.ParkDistance, seed),
		forces:         systems.NewForceField(radius, cfg.Force.Epsilon, cfg.Derived.DisplacementScale, cfg.Particles.Max),
		rotation:       systems.NewRotationAccumulator(cfg.Rotation.Sensitivity),
		scene:          scene.New(cfg),
		intensity:      cfg.Force.Intensity,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		darkBackground: true,
		screenWidth:    float32(w),
		screenHeight:   float32(h),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		activeBuf:      make([]r3.Vec, 0, cfg.Particles.Max),
		parkedBuf:      make([]r3.Vec, 0, cfg.Particles.Max),
	}

	g.camera = camera.New(
		cfg.Camera.FovY, cfg.Camera.Near, cfg.Camera.Far,
		r3.Vec{Z: -cfg.Derived.EyeDistance}, r3.Vec{},
		w, h,
	)

	g.pool.SetActiveCount(cfg.Particles.Initial)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		g.controls = ui.NewControlsPanel(10, 10, 260)
	}

	slog.Info("game initialized",
		"seed", seed,
		"radius", radius,
		"active", g.pool.ActiveCount(),
		"capacity", g.pool.Cap(),
		"intensity", g.intensity,
		"headless", opts.Headless,
	)

	return g
}

// SetActiveCount changes the number of visible particles, clamped to
// [min, max], and returns the resulting count.
func (g *Game) SetActiveCount(n int) int {
	before := g.pool.ActiveCount()
	got := g.pool.SetActiveCount(n)
	if got != before {
		g.collector.RecordCountChange()
	}
	return got
}

// ActiveCount returns the number of visible particles.
func (g *Game) ActiveCount() int {
	return g.pool.ActiveCount()
}

// SetIntensity sets the repulsion intensity, clamped to the configured
// range. NaN is ignored. Returns the intensity in effect.
func (g *Game) SetIntensity(v float64) float64 {
	if math.IsNaN(v) {
		return g.intensity
	}
	g.intensity = math.Min(math.Max(v, g.cfg.Force.MinIntensity), g.cfg.Force.MaxIntensity)
	return g.intensity
}

// Intensity returns the current repulsion intensity.
func (g *Game) Intensity() float64 {
	return g.intensity
}

// BeginDrag starts a drag; rotations accumulate from here on.
func (g *Game) BeginDrag() {
	g.rotation.BeginDrag()
}

// EndDrag ends the drag and drops any rotation not yet applied.
func (g *Game) EndDrag() {
	g.rotation.EndDrag()
}

// Dragging reports whether a drag is in progress.
func (g *Game) Dragging() bool {
	return g.rotation.Dragging()
}

// Accumulate adds a pointer delta in pixels to the pending rotation.
func (g *Game) Accumulate(dx, dy float64) {
	g.rotation.Accumulate(dx, dy)
}

// ToggleBackground switches between dark and light background.
func (g *Game) ToggleBackground() bool {
	g.darkBackground = !g.darkBackground
	return g.darkBackground
}

// DarkBackground reports whether the dark background is in use.
func (g *Game) DarkBackground() bool {
	return g.darkBackground
}

// ToggleSphere shows or hides the wireframe sphere and returns the new state.
func (g *Game) ToggleSphere() bool {
	return g.scene.ToggleSphere()
}

// Resize updates the viewport, and with it the camera aspect.
func (g *Game) Resize(w, h float32) {
	if w <= 0 || h <= 0 {
		return
	}
	g.screenWidth, g.screenHeight = w, h
	g.camera.Resize(float64(w), float64(h))
}

// Tick advances the simulation by one frame.
func (g *Game) Tick() {
	g.perfCollector.BeginFrame()
	g.runTicks(1)
	g.perfCollector.EndFrame()
}

// runTicks steps the simulation n times inside the open perf frame.
func (g *Game) runTicks(n int) {
	for i := 0; i < n; i++ {
		g.perfCollector.StartTick()
		g.step()
		g.perfCollector.EndTick()
	}
}

func (g *Game) step() {
	g.perfCollector.StartPhase(telemetry.PhaseRotation)
	if g.rotation.Dragging() {
		g.collector.RecordDrag()
	}
	g.scene.ApplyToContainer(g.rotation.ApplyAndReset)

	g.perfCollector.StartPhase(telemetry.PhaseForces)
	st := g.forces.Step(g.pool.Active(), g.intensity)
	g.perfCollector.RecordPairs(st.Pairs)
	g.collector.RecordStep(st)

	g.perfCollector.StartPhase(telemetry.PhaseScene)
	g.scene.Update()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// UpdateHeadless runs stepsPerUpdate ticks without reading input.
func (g *Game) UpdateHeadless() {
	g.perfCollector.BeginFrame()
	g.runTicks(g.stepsPerUpdate)
	g.perfCollector.EndFrame()
}

// SetStatsCallback registers a function called with each closed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Pool returns the particle pool.
func (g *Game) Pool() *systems.ParticlePool {
	return g.pool
}

// Scene returns the scene graph.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Camera returns the camera.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Config returns the configuration in use.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// TickCount returns the number of ticks run so far.
func (g *Game) TickCount() int32 {
	return g.tick
}

// PerfStats returns frame timing over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// WorldPositions appends the world-space positions of the active particles to dst.
func (g *Game) WorldPositions(dst []r3.Vec) []r3.Vec {
	cloud := g.scene.Cloud()
	for _, p := range g.pool.Active() {
		dst = append(dst, g.scene.ToWorld(cloud, p.Pos))
	}
	return dst
}

// Unload releases resources and closes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
