package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is a timed section of a frame. Input runs once per frame before
// the ticks; the other phases run inside every tick.
type Phase uint8

const (
	PhaseInput Phase = iota
	PhaseRotation
	PhaseForces
	PhaseScene
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"input", "rotation", "forces", "scene", "telemetry"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// frameTiming is one Update: optional input handling followed by
// stepsPerUpdate ticks.
type frameTiming struct {
	ticks   int
	pairs   int
	busy    time.Duration // BeginFrame to EndFrame
	gap     time.Duration // since the previous BeginFrame, zero for the first
	tickSum time.Duration
	tickMin time.Duration
	tickMax time.Duration
	phase   [numPhases]time.Duration
}

// PerfCollector times frames and the ticks inside them over a rolling
// window of completed frames. A frame in progress is not reported.
type PerfCollector struct {
	now func() time.Time

	frames     []frameTiming
	next       int
	count      int
	cur        frameTiming
	inFrame    bool
	frameStart time.Time
	lastBegin  time.Time

	inTick    bool
	tickStart time.Time

	open       bool
	openPhase  Phase
	phaseStart time.Time
}

// NewPerfCollector keeps the last window frames. Non-positive windows
// default to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		now:    time.Now,
		frames: make([]frameTiming, window),
	}
}

// BeginFrame opens a frame. An unfinished frame is discarded.
func (p *PerfCollector) BeginFrame() {
	now := p.now()
	p.cur = frameTiming{}
	if !p.lastBegin.IsZero() {
		p.cur.gap = now.Sub(p.lastBegin)
	}
	p.lastBegin = now
	p.frameStart = now
	p.inFrame = true
	p.inTick = false
	p.open = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	if phase >= numPhases {
		return
	}
	p.open = true
	p.openPhase = phase
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open {
		p.cur.phase[p.openPhase] += now.Sub(p.phaseStart)
		p.open = false
	}
}

// StartTick ends frame-level work such as input and starts a tick.
func (p *PerfCollector) StartTick() {
	now := p.now()
	p.closePhase(now)
	p.tickStart = now
	p.inTick = true
}

// RecordPairs adds the number of force pairs evaluated in the current tick.
func (p *PerfCollector) RecordPairs(n int) {
	if n > 0 {
		p.cur.pairs += n
	}
}

// EndTick closes the running phase and folds the tick into the frame.
func (p *PerfCollector) EndTick() {
	if !p.inTick {
		return
	}
	now := p.now()
	p.closePhase(now)
	d := now.Sub(p.tickStart)
	if p.cur.ticks == 0 || d < p.cur.tickMin {
		p.cur.tickMin = d
	}
	if d > p.cur.tickMax {
		p.cur.tickMax = d
	}
	p.cur.tickSum += d
	p.cur.ticks++
	p.inTick = false
}

// EndFrame records the frame in the window.
func (p *PerfCollector) EndFrame() {
	if !p.inFrame {
		return
	}
	now := p.now()
	if p.inTick {
		p.EndTick()
	}
	p.closePhase(now)
	p.cur.busy = now.Sub(p.frameStart)
	p.frames[p.next] = p.cur
	p.next = (p.next + 1) % len(p.frames)
	if p.count < len(p.frames) {
		p.count++
	}
	p.inFrame = false
}

// PerfStats aggregates the completed frames in the window.
type PerfStats struct {
	Frames        int
	TicksPerFrame float64

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	AvgFrameBusy   time.Duration
	FrameBusyStd   time.Duration
	FrameDuration  time.Duration // mean time between frame starts
	FPS            float64
	PhaseAvg       [numPhases]time.Duration // per frame
	PhasePct       [numPhases]float64       // share of frame busy time
	PairsPerTick   float64
	ForceNsPerPair float64
}

// Stats computes the window aggregate.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.count == 0 {
		return s
	}

	busy := make([]float64, 0, p.count)
	var ticks, pairs, gaps int
	var tickSum, busySum, gapSum time.Duration
	var phaseSum [numPhases]time.Duration
	for _, f := range p.frames[:p.count] {
		busy = append(busy, float64(f.busy))
		busySum += f.busy
		if f.gap > 0 {
			gapSum += f.gap
			gaps++
		}
		for i := range phaseSum {
			phaseSum[i] += f.phase[i]
		}
		if f.ticks == 0 {
			continue
		}
		if ticks == 0 || f.tickMin < s.MinTickDuration {
			s.MinTickDuration = f.tickMin
		}
		if f.tickMax > s.MaxTickDuration {
			s.MaxTickDuration = f.tickMax
		}
		ticks += f.ticks
		pairs += f.pairs
		tickSum += f.tickSum
	}

	s.Frames = p.count
	s.TicksPerFrame = float64(ticks) / float64(p.count)
	mean, std := stat.MeanStdDev(busy, nil)
	s.AvgFrameBusy = time.Duration(mean)
	if !math.IsNaN(std) {
		s.FrameBusyStd = time.Duration(std)
	}
	for i := range phaseSum {
		s.PhaseAvg[i] = phaseSum[i] / time.Duration(p.count)
		if busySum > 0 {
			s.PhasePct[i] = float64(phaseSum[i]) / float64(busySum) * 100
		}
	}
	if gaps > 0 {
		s.FrameDuration = gapSum / time.Duration(gaps)
		s.FPS = float64(time.Second) / float64(s.FrameDuration)
	}
	if ticks > 0 {
		s.AvgTickDuration = tickSum / time.Duration(ticks)
		s.PairsPerTick = float64(pairs) / float64(ticks)
	}
	if tickSum > 0 {
		s.TicksPerSecond = float64(ticks) / tickSum.Seconds()
	}
	if pairs > 0 {
		s.ForceNsPerPair = float64(phaseSum[PhaseForces]) / float64(pairs)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Float64("ticks_per_frame", s.TicksPerFrame),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("frame_busy_us", s.AvgFrameBusy.Microseconds()),
		slog.Float64("pairs_per_tick", s.PairsPerTick),
		slog.Float64("ns_per_pair", s.ForceNsPerPair),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for i, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(i).String()+"_pct", math.Round(pct*10)/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// PerfStatsCSV is the perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	Frames        int     `csv:"frames"`
	TicksPerFrame float64 `csv:"ticks_per_frame"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FrameBusyUS   int64   `csv:"frame_busy_us"`
	FrameStdUS    int64   `csv:"frame_std_us"`
	FPS           float64 `csv:"fps"`
	PairsPerTick  float64 `csv:"pairs_per_tick"`
	NsPerPair     float64 `csv:"ns_per_pair"`
	InputPct      float64 `csv:"input_pct"`
	RotationPct   float64 `csv:"rotation_pct"`
	ForcesPct     float64 `csv:"forces_pct"`
	ScenePct      float64 `csv:"scene_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for gocsv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		Frames:        s.Frames,
		TicksPerFrame: s.TicksPerFrame,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FrameBusyUS:   s.AvgFrameBusy.Microseconds(),
		FrameStdUS:    s.FrameBusyStd.Microseconds(),
		FPS:           s.FPS,
		PairsPerTick:  s.PairsPerTick,
		NsPerPair:     s.ForceNsPerPair,
		InputPct:      s.PhasePct[PhaseInput],
		RotationPct:   s.PhasePct[PhaseRotation],
		ForcesPct:     s.PhasePct[PhaseForces],
		ScenePct:      s.PhasePct[PhaseScene],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
