package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/platonic/systems"
)

// Collector accumulates per-tick events within windows and produces WindowStats.
type Collector struct {
	windowTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	displacements []float64
	maxDisp       float64
	skipped       int
	recovered     int
	dragTicks     int
	countChanges  int
}

// NewCollector creates a collector that closes a window every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:   int32(windowTicks),
		displacements: make([]float64, 0, windowTicks),
	}
}

// RecordStep records one force field step.
func (c *Collector) RecordStep(s systems.StepStats) {
	c.displacements = append(c.displacements, s.MaxDisplacement)
	c.maxDisp = math.Max(c.maxDisp, s.MaxDisplacement)
	c.skipped += s.Skipped
	c.recovered += s.Recovered
}

// RecordDrag records a tick in which a drag was in progress.
func (c *Collector) RecordDrag() {
	c.dragTicks++
}

// RecordCountChange records a change of the active particle count.
func (c *Collector) RecordCountChange() {
	c.countChanges++
}

// ShouldFlush reports whether the window ending at tick is complete.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush closes the current window at tick, combining the counters with a
// sample of the pool, and starts a new window.
func (c *Collector) Flush(tick int32, sample Sample) WindowStats {
	radialErr, parkedMin := ComputeSurfaceStats(sample.Active, sample.Parked, sample.Radius)
	minDist, meanDist, stdDist := ComputePairStats(sample.Active)

	var meanDisp float64
	if len(c.displacements) > 0 {
		meanDisp = stat.Mean(c.displacements, nil)
	}

	stats := WindowStats{
		WindowStartTick:  c.windowStartTick,
		WindowEndTick:    tick,
		Active:           len(sample.Active),
		Parked:           len(sample.Parked),
		Intensity:        sample.Intensity,
		RadialErrMax:     radialErr,
		ParkedMinRadius:  parkedMin,
		MinPairDist:      minDist,
		MeanPairDist:     meanDist,
		PairDistStd:      stdDist,
		MeanDisplacement: meanDisp,
		MaxDisplacement:  c.maxDisp,
		SkippedPairs:     c.skipped,
		Recovered:        c.recovered,
		DragTicks:        c.dragTicks,
		CountChanges:     c.countChanges,
	}

	c.windowStartTick = tick
	c.displacements = c.displacements[:0]
	c.maxDisp = 0
	c.skipped = 0
	c.recovered = 0
	c.dragTicks = 0
	c.countChanges = 0

	return stats
}
