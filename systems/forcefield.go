package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

// StepStats summarizes one force field step.
type StepStats struct {
	Pairs           int     // pairs that contributed a force
	Skipped         int     // pairs closer than epsilon (or non-finite)
	Recovered       int     // points whose summed position was degenerate
	MaxDisplacement float64 // largest pre-projection displacement
	MinPairDist     float64 // closest contributing pair (0 when none)
	MeanPairDist    float64
}

// ForceField applies one step of inverse-square mutual repulsion to the
// active points and re-projects them onto the sphere. It keeps no velocity
// between steps: every step starts from current positions only.
type ForceField struct {
	radius  float64
	epsilon float64
	scale   float64

	// Scratch buffers reused across steps
	snapshot []r3.Vec
	disp     []r3.Vec
}

// NewForceField creates a force field for points on a sphere of the given
// radius. Pairs with squared distance below epsilon are skipped; scale is
// the displacement produced by a unit force.
func NewForceField(radius, epsilon, scale float64, capacity int) *ForceField {
	return &ForceField{
		radius:   radius,
		epsilon:  epsilon,
		scale:    scale,
		snapshot: make([]r3.Vec, 0, capacity),
		disp:     make([]r3.Vec, 0, capacity),
	}
}

// Step runs one relaxation step over points with the given intensity.
// All pairwise displacements are computed from a snapshot of the current
// positions, summed per point, applied, and then each point is projected
// back onto the sphere once.
func (f *ForceField) Step(points []components.SurfacePoint, intensity float64) StepStats {
	stats := f.accumulate(points, intensity)

	for i := range points {
		next := r3.Add(f.snapshot[i], f.disp[i])
		n := r3.Norm(next)
		if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			// Keep the pre-step position
			next = f.snapshot[i]
			stats.Recovered++
		}
		points[i].Pos = next
		points[i].Show(f.radius)
	}

	return stats
}

// accumulate fills f.snapshot with current positions and f.disp with the
// summed displacement for each point.
func (f *ForceField) accumulate(points []components.SurfacePoint, intensity float64) StepStats {
	k := len(points)
	f.snapshot = f.snapshot[:0]
	f.disp = f.disp[:0]
	for i := range points {
		f.snapshot = append(f.snapshot, points[i].Pos)
		f.disp = append(f.disp, r3.Vec{})
	}

	var stats StepStats
	var distSum float64
	minDist := math.Inf(1)

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			delta := r3.Sub(f.snapshot[i], f.snapshot[j])
			d2 := r3.Norm2(delta)
			if !(d2 >= f.epsilon) || math.IsInf(d2, 0) {
				stats.Skipped++
				continue
			}

			force := intensity / d2
			d := math.Sqrt(d2)
			push := r3.Scale(force*f.scale/d, delta)
			if !finiteVec(push) {
				stats.Skipped++
				continue
			}

			f.disp[i] = r3.Add(f.disp[i], push)
			f.disp[j] = r3.Sub(f.disp[j], push)

			stats.Pairs++
			distSum += d
			if d < minDist {
				minDist = d
			}
		}
	}

	for i := range f.disp {
		if m := r3.Norm(f.disp[i]); m > stats.MaxDisplacement {
			stats.MaxDisplacement = m
		}
	}
	if stats.Pairs > 0 {
		stats.MinPairDist = minDist
		stats.MeanPairDist = distSum / float64(stats.Pairs)
	}

	return stats
}

func finiteVec(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
