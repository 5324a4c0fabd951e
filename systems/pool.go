// Package systems contains the simulation systems: the particle pool, the
// repulsion force field, drag rotation and scene spin.
package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

// ParticlePool is a fixed arena of surface points. Slots [0, active) are on
// the sphere; slots [active, cap) are parked off-stage. Points are allocated
// once and never freed.
type ParticlePool struct {
	points       []components.SurfacePoint
	active       int
	min, max     int
	radius       float64
	parkDistance float64
}

// NewParticlePool allocates capacity points seeded from seed, all parked.
// Call SetActiveCount to bring points onto the sphere.
func NewParticlePool(capacity, minActive int, radius, parkDistance float64, seed int64) *ParticlePool {
	if capacity < 0 {
		capacity = 0
	}
	if minActive < 0 {
		minActive = 0
	}
	if minActive > capacity {
		minActive = capacity
	}

	points := make([]components.SurfacePoint, capacity)
	for i := range points {
		points[i] = components.NewSurfacePoint(i, seed)
		points[i].BeGone(parkDistance)
	}

	return &ParticlePool{
		points:       points,
		min:          minActive,
		max:          capacity,
		radius:       radius,
		parkDistance: parkDistance,
	}
}

// SetActiveCount clamps n to [min, cap] and activates or parks points from
// the end of the active partition until exactly n are active. Returns the
// clamped count. Calling it again with the same n changes nothing.
func (p *ParticlePool) SetActiveCount(n int) int {
	if n < p.min {
		n = p.min
	}
	if n > p.max {
		n = p.max
	}

	for p.active < n {
		p.points[p.active].Activate(p.radius)
		p.active++
	}
	for p.active > n {
		p.points[p.active-1].BeGone(p.parkDistance)
		p.active--
	}
	return p.active
}

// ActiveCount returns the number of points on the sphere.
func (p *ParticlePool) ActiveCount() int {
	return p.active
}

// Active returns a read/write view of the active points.
func (p *ParticlePool) Active() []components.SurfacePoint {
	return p.points[:p.active]
}

// All returns every slot, active ones first.
func (p *ParticlePool) All() []components.SurfacePoint {
	return p.points
}

// Cap returns the pool capacity.
func (p *ParticlePool) Cap() int {
	return p.max
}

// Min returns the lower bound for the active count.
func (p *ParticlePool) Min() int {
	return p.min
}

// Radius returns the sphere radius active points are projected onto.
func (p *ParticlePool) Radius() float64 {
	return p.radius
}

// Positions appends the positions of all slots to dst and returns it.
func (p *ParticlePool) Positions(dst []r3.Vec) []r3.Vec {
	for i := range p.points {
		dst = append(dst, p.points[i].Pos)
	}
	return dst
}
