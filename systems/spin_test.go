package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

func TestSpinSystemAdvancesSpinningNodes(t *testing.T) {
	world := ecs.NewWorld()
	spinning := ecs.NewMap2[components.Transform, components.Spin](world)
	static := ecs.NewMap[components.Transform](world)
	transforms := ecs.NewMap[components.Transform](world)

	spinner := spinning.NewEntity(
		&components.Transform{Rotation: components.Identity},
		&components.Spin{Axis: r3.Vec{Y: -1}, Angle: 0.003},
	)
	still := static.NewEntity(&components.Transform{Rotation: components.Identity})

	sys := NewSpinSystem(world)
	for i := 0; i < 100; i++ {
		sys.Update()
	}

	if got := Angle(transforms.Get(spinner).Rotation); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("expected spinner rotated by 0.3 rad, got %g", got)
	}
	if got := transforms.Get(still).Rotation; got != components.Identity {
		t.Errorf("expected non-spinning node untouched, got %v", got)
	}
}
