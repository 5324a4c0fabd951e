package components

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewSurfacePointDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		a := NewSurfacePoint(i, 1)
		b := NewSurfacePoint(i, 1)
		if a != b {
			t.Errorf("slot %d: expected identical points, got %v and %v", i, a.Pos, b.Pos)
		}
		if a.Radius() < minSeedNorm {
			t.Errorf("slot %d: initial position too close to origin: %v", i, a.Pos)
		}
	}

	if NewSurfacePoint(0, 1) == NewSurfacePoint(1, 1) {
		t.Error("expected different slots to get different positions")
	}
}

func TestShowProjectsOntoSphere(t *testing.T) {
	tests := []struct {
		name string
		pos  r3.Vec
	}{
		{"inside", r3.Vec{X: 0.1, Y: 0.2, Z: -0.3}},
		{"outside", r3.Vec{X: 500, Y: -20, Z: 3}},
		{"on axis", r3.Vec{Y: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SurfacePoint{Pos: tt.pos}
			p.Show(100)
			if math.Abs(p.Radius()-100) > 1e-9 {
				t.Errorf("expected radius 100, got %f", p.Radius())
			}
			// Direction is preserved
			if r3.Dot(r3.Unit(tt.pos), r3.Unit(p.Pos)) < 1-1e-12 {
				t.Errorf("direction changed: %v -> %v", tt.pos, p.Pos)
			}
		})
	}
}

func TestShowPanicsOnZeroVector(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic projecting the origin")
		}
	}()
	p := SurfacePoint{}
	p.Show(100)
}

func TestBeGone(t *testing.T) {
	p := NewSurfacePoint(3, 1)
	p.Show(100)
	p.BeGone(2000)

	if !p.Parked(100) {
		t.Errorf("expected parked point beyond %f, got radius %f", ParkedThreshold*100, p.Radius())
	}
	if p.OnSurface(100, 1e-6) {
		t.Error("parked point should not be on the surface")
	}
	if p.Pos.Z >= 0 {
		t.Errorf("expected point parked on -Z, got %v", p.Pos)
	}
}

func TestFinite(t *testing.T) {
	if !(SurfacePoint{Pos: r3.Vec{X: 1}}).Finite() {
		t.Error("expected finite point")
	}
	if (SurfacePoint{Pos: r3.Vec{X: math.NaN()}}).Finite() {
		t.Error("expected NaN point to be non-finite")
	}
	if (SurfacePoint{Pos: r3.Vec{Z: math.Inf(-1)}}).Finite() {
		t.Error("expected Inf point to be non-finite")
	}
}

func TestActivateReturnsHome(t *testing.T) {
	a := NewSurfacePoint(4, 1)
	b := NewSurfacePoint(5, 1)
	a.BeGone(2000)
	b.BeGone(2000)

	a.Activate(100)
	b.Activate(100)

	if !a.OnSurface(100, 1e-9) || !b.OnSurface(100, 1e-9) {
		t.Fatalf("expected activated points on the sphere, got radii %f and %f", a.Radius(), b.Radius())
	}
	if r3.Norm(r3.Sub(a.Pos, b.Pos)) < 1e-6 {
		t.Errorf("reactivated points should not coincide: %v and %v", a.Pos, b.Pos)
	}
	if r3.Dot(r3.Unit(a.Home), r3.Unit(a.Pos)) < 1-1e-12 {
		t.Errorf("expected activation along home direction %v, got %v", a.Home, a.Pos)
	}
}
