package telemetry

import (
	"math"
	"testing"
	"time"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newSteppedCollector(window int) (*PerfCollector, *stepClock) {
	clk := &stepClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

// runFrame records one frame of input followed by ticks ticks with the
// given per-tick phase costs and pair count.
func runFrame(pc *PerfCollector, clk *stepClock, input time.Duration, ticks int, cost [numPhases]time.Duration, pairs int) {
	pc.BeginFrame()
	pc.StartPhase(PhaseInput)
	clk.advance(input)
	for i := 0; i < ticks; i++ {
		pc.StartTick()
		for _, ph := range []Phase{PhaseRotation, PhaseForces, PhaseScene, PhaseTelemetry} {
			pc.StartPhase(ph)
			clk.advance(cost[ph])
			if ph == PhaseForces {
				pc.RecordPairs(pairs)
			}
		}
		pc.EndTick()
	}
	pc.EndFrame()
}

var tickCost = [numPhases]time.Duration{
	PhaseRotation:  10 * time.Microsecond,
	PhaseForces:    50 * time.Microsecond,
	PhaseScene:     20 * time.Microsecond,
	PhaseTelemetry: 5 * time.Microsecond,
}

func TestPerfCollector_SplitsFrameIntoTicks(t *testing.T) {
	pc, clk := newSteppedCollector(10)
	runFrame(pc, clk, 100*time.Microsecond, 3, tickCost, 45)

	s := pc.Stats()
	if s.Frames != 1 || s.TicksPerFrame != 3 {
		t.Fatalf("expected 1 frame of 3 ticks, got %d frames of %v", s.Frames, s.TicksPerFrame)
	}
	if s.AvgTickDuration != 85*time.Microsecond || s.MinTickDuration != 85*time.Microsecond || s.MaxTickDuration != 85*time.Microsecond {
		t.Errorf("unexpected tick durations avg=%v min=%v max=%v", s.AvgTickDuration, s.MinTickDuration, s.MaxTickDuration)
	}
	if s.AvgFrameBusy != 355*time.Microsecond {
		t.Errorf("expected frame busy 355us, got %v", s.AvgFrameBusy)
	}

	tests := []struct {
		phase Phase
		want  time.Duration
	}{
		{PhaseInput, 100 * time.Microsecond},
		{PhaseRotation, 30 * time.Microsecond},
		{PhaseForces, 150 * time.Microsecond},
		{PhaseScene, 60 * time.Microsecond},
		{PhaseTelemetry, 15 * time.Microsecond},
	}
	var pctSum float64
	for _, tt := range tests {
		if got := s.PhaseAvg[tt.phase]; got != tt.want {
			t.Errorf("%s: expected %v per frame, got %v", tt.phase, tt.want, got)
		}
		pctSum += s.PhasePct[tt.phase]
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("phase shares should cover the frame, got %v%%", pctSum)
	}

	if s.PairsPerTick != 45 {
		t.Errorf("expected 45 pairs per tick, got %v", s.PairsPerTick)
	}
	if want := 150000.0 / 135; math.Abs(s.ForceNsPerPair-want) > 1e-9 {
		t.Errorf("expected %v ns per pair, got %v", want, s.ForceNsPerPair)
	}
	if want := 3 / 255e-6; math.Abs(s.TicksPerSecond-want) > 1e-6 {
		t.Errorf("expected %v ticks/s, got %v", want, s.TicksPerSecond)
	}
}

func TestPerfCollector_FrameRateFromFrameStarts(t *testing.T) {
	pc, clk := newSteppedCollector(10)

	runFrame(pc, clk, 0, 1, tickCost, 3)
	clk.advance(16*time.Millisecond - 85*time.Microsecond)
	runFrame(pc, clk, 0, 1, tickCost, 3)

	s := pc.Stats()
	if s.FrameDuration != 16*time.Millisecond {
		t.Errorf("expected 16ms between frames, got %v", s.FrameDuration)
	}
	if math.Abs(s.FPS-62.5) > 1e-9 {
		t.Errorf("expected 62.5 fps, got %v", s.FPS)
	}
	if s.PhasePct[PhaseInput] != 0 {
		t.Errorf("headless frames have no input share, got %v", s.PhasePct[PhaseInput])
	}
}

func TestPerfCollector_WindowKeepsLatestFrames(t *testing.T) {
	pc, clk := newSteppedCollector(2)
	for ticks := 1; ticks <= 3; ticks++ {
		runFrame(pc, clk, 0, ticks, tickCost, 10)
	}

	s := pc.Stats()
	if s.Frames != 2 {
		t.Fatalf("expected window of 2 frames, got %d", s.Frames)
	}
	if s.TicksPerFrame != 2.5 {
		t.Errorf("expected frames of 2 and 3 ticks to average 2.5, got %v", s.TicksPerFrame)
	}
	// 170us and 255us busy, sample std dev = 85/sqrt(2) us
	if want := 85 * time.Microsecond / 2; s.FrameBusyStd < want || s.FrameBusyStd > 2*want {
		t.Errorf("expected frame std near 60us, got %v", s.FrameBusyStd)
	}
}

func TestPerfCollector_IgnoresFrameInProgress(t *testing.T) {
	pc, clk := newSteppedCollector(10)
	runFrame(pc, clk, 0, 2, tickCost, 6)

	pc.BeginFrame()
	pc.StartTick()
	pc.StartPhase(PhaseForces)
	clk.advance(time.Second)
	pc.RecordPairs(1000)
	pc.EndTick()

	s := pc.Stats()
	if s.Frames != 1 || s.PairsPerTick != 6 || s.MaxTickDuration != 85*time.Microsecond {
		t.Errorf("open frame leaked into stats: %+v", s)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(0)
	s := pc.Stats()
	if s.Frames != 0 || s.AvgTickDuration != 0 || s.FPS != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}

	// Unbalanced calls are ignored.
	pc.EndTick()
	pc.EndFrame()
	if pc.Stats().Frames != 0 {
		t.Error("EndFrame without BeginFrame should not record")
	}
}

func TestPerfStats_ToCSVColumns(t *testing.T) {
	pc, clk := newSteppedCollector(4)
	runFrame(pc, clk, 15*time.Microsecond, 1, tickCost, 3)

	row := pc.Stats().ToCSV(600)
	if row.WindowEnd != 600 || row.Frames != 1 || row.TicksPerFrame != 1 || row.PairsPerTick != 3 {
		t.Errorf("unexpected row %+v", row)
	}
	if math.Abs(row.ForcesPct-50) > 1e-9 || math.Abs(row.InputPct-15) > 1e-9 {
		t.Errorf("expected forces 50%% and input 15%%, got %v and %v", row.ForcesPct, row.InputPct)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseForces.String() != "forces" || Phase(99).String() != "unknown" {
		t.Errorf("unexpected phase names %q %q", PhaseForces, Phase(99))
	}
}
