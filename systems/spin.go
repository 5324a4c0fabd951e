package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

// SpinSystem advances every spinning scene node by its per-tick rotation.
type SpinSystem struct {
	filter *ecs.Filter2[components.Transform, components.Spin]
}

// NewSpinSystem creates a spin system for the given world.
func NewSpinSystem(w *ecs.World) *SpinSystem {
	return &SpinSystem{
		filter: ecs.NewFilter2[components.Transform, components.Spin](w),
	}
}

// Update runs the spin system.
func (s *SpinSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		tr, spin := query.Get()
		if spin.Angle == 0 || spin.Axis == (r3.Vec{}) {
			continue
		}
		// Spin is local: apply before the existing orientation
		tr.Rotation = Compose(tr.Rotation, r3.NewRotation(spin.Angle, spin.Axis))
	}
}
