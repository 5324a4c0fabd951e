package components

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParkedThreshold is the multiple of the sphere radius beyond which a
// point counts as parked.
const ParkedThreshold = 10.0

// minSeedNorm rejects near-origin initial positions so Show always has a direction.
const minSeedNorm = 1e-3

// SurfacePoint is a particle position in the point-cloud frame.
// Home is the seeded starting position, reused when a parked point is
// brought back so reactivated points never stack on the parking spot.
type SurfacePoint struct {
	Pos  r3.Vec
	Home r3.Vec
}

// NewSurfacePoint returns a point with a pseudo-random position derived
// from seed and index. The same (index, seed) always yields the same point,
// and the position is never the origin.
func NewSurfacePoint(index int, seed int64) SurfacePoint {
	rng := rand.New(rand.NewSource(seed + int64(index)))
	for {
		p := r3.Vec{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		if r3.Norm(p) >= minSeedNorm {
			return SurfacePoint{Pos: p, Home: p}
		}
	}
}

// Show projects the point onto the sphere of the given radius centered at
// the origin. A zero or non-finite position has no direction and is a
// logic error.
func (p *SurfacePoint) Show(radius float64) {
	n := r3.Norm(p.Pos)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		panic(fmt.Sprintf("components: cannot project degenerate position %v onto sphere", p.Pos))
	}
	p.Pos = r3.Scale(radius/n, p.Pos)
}

// Activate returns the point to its home direction on the sphere.
func (p *SurfacePoint) Activate(radius float64) {
	p.Pos = p.Home
	p.Show(radius)
}

// BeGone parks the point off-stage on the -Z axis, behind the camera.
func (p *SurfacePoint) BeGone(parkDistance float64) {
	p.Pos = r3.Vec{Z: -parkDistance}
}

// Radius returns the point's distance from the sphere center.
func (p SurfacePoint) Radius() float64 {
	return r3.Norm(p.Pos)
}

// OnSurface reports whether the point lies on the sphere within tol.
func (p SurfacePoint) OnSurface(radius, tol float64) bool {
	return math.Abs(p.Radius()-radius) <= tol
}

// Parked reports whether the point is beyond ParkedThreshold radii.
func (p SurfacePoint) Parked(radius float64) bool {
	return p.Radius() > ParkedThreshold*radius
}

// Finite reports whether every coordinate is a finite number.
func (p SurfacePoint) Finite() bool {
	return finite(p.Pos.X) && finite(p.Pos.Y) && finite(p.Pos.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
