package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population and control state at window end
	Active    int     `csv:"active"`
	Parked    int     `csv:"parked"`
	Intensity float64 `csv:"intensity"`

	// Surface invariants sampled at window end
	RadialErrMax    float64 `csv:"radial_err_max"`    // max |r - radius| over active points
	ParkedMinRadius float64 `csv:"parked_min_radius"` // closest parked point to the center

	// Spread of the active points at window end
	MinPairDist  float64 `csv:"min_pair_dist"`
	MeanPairDist float64 `csv:"mean_pair_dist"`
	PairDistStd  float64 `csv:"pair_dist_std"`

	// Force activity during the window
	MeanDisplacement float64 `csv:"mean_displacement"` // mean of per-tick max displacement
	MaxDisplacement  float64 `csv:"max_displacement"`
	SkippedPairs     int     `csv:"skipped_pairs"`
	Recovered        int     `csv:"recovered"`

	// Input activity during the window
	DragTicks    int `csv:"drag_ticks"`
	CountChanges int `csv:"count_changes"`
}

// Sample is the pool state handed to the collector at a window boundary.
type Sample struct {
	Active    []r3.Vec
	Parked    []r3.Vec
	Radius    float64
	Intensity float64
}

// ComputeSurfaceStats returns the worst radial error of the active points
// and the smallest radius among parked points (0 when none are parked).
func ComputeSurfaceStats(active, parked []r3.Vec, radius float64) (radialErrMax, parkedMin float64) {
	for _, p := range active {
		if e := math.Abs(r3.Norm(p) - radius); e > radialErrMax {
			radialErrMax = e
		}
	}
	for i, p := range parked {
		if r := r3.Norm(p); i == 0 || r < parkedMin {
			parkedMin = r
		}
	}
	return radialErrMax, parkedMin
}

// ComputePairStats returns the minimum, mean and standard deviation of the
// pairwise distances between points. All zero for fewer than two points.
func ComputePairStats(points []r3.Vec) (minDist, mean, std float64) {
	n := len(points)
	if n < 2 {
		return 0, 0, 0
	}

	dists := make([]float64, 0, n*(n-1)/2)
	minDist = math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := r3.Norm(r3.Sub(points[i], points[j]))
			dists = append(dists, d)
			if d < minDist {
				minDist = d
			}
		}
	}

	if len(dists) == 1 {
		return minDist, dists[0], 0
	}
	mean, std = stat.MeanStdDev(dists, nil)
	return minDist, mean, std
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("active", s.Active),
		slog.Int("parked", s.Parked),
		slog.Float64("intensity", s.Intensity),
		slog.Float64("radial_err_max", s.RadialErrMax),
		slog.Float64("parked_min_radius", s.ParkedMinRadius),
		slog.Float64("min_pair_dist", s.MinPairDist),
		slog.Float64("mean_pair_dist", s.MeanPairDist),
		slog.Float64("pair_dist_std", s.PairDistStd),
		slog.Float64("mean_displacement", s.MeanDisplacement),
		slog.Float64("max_displacement", s.MaxDisplacement),
		slog.Int("skipped_pairs", s.SkippedPairs),
		slog.Int("recovered", s.Recovered),
		slog.Int("drag_ticks", s.DragTicks),
		slog.Int("count_changes", s.CountChanges),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"active", s.Active,
		"intensity", s.Intensity,
		"radial_err_max", s.RadialErrMax,
		"min_pair_dist", s.MinPairDist,
		"mean_pair_dist", s.MeanPairDist,
		"skipped_pairs", s.SkippedPairs,
	)
}
