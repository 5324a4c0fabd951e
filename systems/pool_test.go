package systems

import (
	"testing"

	"github.com/pthm-cable/platonic/components"
	"github.com/pthm-cable/platonic/config"
)

const (
	testRadius = 100.0
	testPark   = 2000.0
	testMax    = 20
	surfaceTol = 1e-9
)

func newTestPool() *ParticlePool {
	return NewParticlePool(testMax, 0, testRadius, testPark, 1)
}

// checkPartition verifies that exactly n points are on the sphere and the
// rest are parked beyond ParkedThreshold radii.
func checkPartition(t *testing.T, p *ParticlePool, n int) {
	t.Helper()
	if p.ActiveCount() != n {
		t.Fatalf("expected %d active, got %d", n, p.ActiveCount())
	}
	for i, pt := range p.All() {
		if i < n {
			if !pt.OnSurface(testRadius, surfaceTol) {
				t.Errorf("slot %d: expected radius %f, got %f", i, testRadius, pt.Radius())
			}
		} else if !pt.Parked(testRadius) {
			t.Errorf("slot %d: expected parked beyond %f, got %f", i, components.ParkedThreshold*testRadius, pt.Radius())
		}
	}
}

func TestNewPoolAllParked(t *testing.T) {
	p := newTestPool()
	if p.Cap() != testMax || len(p.All()) != testMax {
		t.Fatalf("expected capacity %d, got %d", testMax, p.Cap())
	}
	checkPartition(t, p, 0)
	if len(p.Active()) != 0 {
		t.Errorf("expected empty active slice, got %d", len(p.Active()))
	}
}

func TestSetActiveCountEveryN(t *testing.T) {
	for n := 0; n <= testMax; n++ {
		p := newTestPool()
		if got := p.SetActiveCount(n); got != n {
			t.Errorf("SetActiveCount(%d) returned %d", n, got)
		}
		checkPartition(t, p, n)
		if len(p.Active()) != n {
			t.Errorf("expected active slice of %d, got %d", n, len(p.Active()))
		}
	}
}

func TestSetActiveCountGrowAndShrink(t *testing.T) {
	p := newTestPool()
	for _, n := range []int{3, 12, 5, 20, 0, 7} {
		p.SetActiveCount(n)
		checkPartition(t, p, n)
	}
}

func TestSetActiveCountClamps(t *testing.T) {
	p := NewParticlePool(testMax, 2, testRadius, testPark, 1)

	tests := []struct {
		in, want int
	}{
		{-5, 2},
		{0, 2},
		{1, 2},
		{25, testMax},
		{testMax, testMax},
	}
	for _, tt := range tests {
		if got := p.SetActiveCount(tt.in); got != tt.want {
			t.Errorf("SetActiveCount(%d): expected %d, got %d", tt.in, tt.want, got)
		}
		checkPartition(t, p, tt.want)
	}
}

func TestSetActiveCountIdempotent(t *testing.T) {
	for _, n := range []int{0, 3, 11, testMax} {
		p := newTestPool()
		p.SetActiveCount(n)
		once := append([]components.SurfacePoint(nil), p.All()...)

		p.SetActiveCount(n)
		for i, pt := range p.All() {
			if pt != once[i] {
				t.Errorf("n=%d slot %d: state changed on repeat call: %v -> %v", n, i, once[i].Pos, pt.Pos)
			}
		}
	}
}

func TestActiveIsWritableView(t *testing.T) {
	p := newTestPool()
	p.SetActiveCount(3)

	p.Active()[1].Pos.X += 1
	if p.All()[1].Pos != p.Active()[1].Pos {
		t.Error("expected Active to alias the pool storage")
	}
}

func TestPositions(t *testing.T) {
	p := newTestPool()
	p.SetActiveCount(4)

	pos := p.Positions(nil)
	if len(pos) != testMax {
		t.Fatalf("expected %d positions, got %d", testMax, len(pos))
	}
	for i := range pos {
		if pos[i] != p.All()[i].Pos {
			t.Errorf("slot %d: expected %v, got %v", i, p.All()[i].Pos, pos[i])
		}
	}
}

func TestConfiguredParkDistanceParksBeyondThreshold(t *testing.T) {
	for _, factor := range []float64{10, 10.5, 20} {
		cfg := config.Default()
		cfg.Particles.ParkFactor = factor
		if err := cfg.Apply(); err != nil {
			t.Fatalf("Apply(%v): %v", factor, err)
		}
		p := NewParticlePool(testMax, 0, cfg.Sphere.Radius, cfg.Derived.ParkDistance, 1)
		p.SetActiveCount(3)
		checkPartition(t, p, 3)
	}
}
