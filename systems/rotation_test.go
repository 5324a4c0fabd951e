package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

const sensitivity = 0.005

func rotationsEqual(a, b r3.Rotation, tol float64) bool {
	// q and -q describe the same rotation
	same := math.Abs(a.Real-b.Real) <= tol && math.Abs(a.Imag-b.Imag) <= tol &&
		math.Abs(a.Jmag-b.Jmag) <= tol && math.Abs(a.Kmag-b.Kmag) <= tol
	flipped := math.Abs(a.Real+b.Real) <= tol && math.Abs(a.Imag+b.Imag) <= tol &&
		math.Abs(a.Jmag+b.Jmag) <= tol && math.Abs(a.Kmag+b.Kmag) <= tol
	return same || flipped
}

func TestAccumulateZeroDeltaIsIdentity(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(0, 0)

	if r.Pending() != components.Identity {
		t.Errorf("expected identity pending rotation, got %v", r.Pending())
	}

	tr := r3.NewRotation(0.7, r3.Vec{X: 1, Y: 2, Z: 3})
	if got := r.ApplyAndReset(tr); !rotationsEqual(got, tr, 1e-12) {
		t.Errorf("expected transform unchanged, got %v want %v", got, tr)
	}
}

func TestAccumulateNonFiniteIgnored(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(math.NaN(), 1)
	r.Accumulate(math.Inf(1), 0)

	if r.Pending() != components.Identity {
		t.Errorf("expected identity pending rotation, got %v", r.Pending())
	}
}

func TestAccumulateAngle(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
	}{
		{"horizontal", 10, 0},
		{"vertical", 0, -7},
		{"diagonal", 3, 4},
		{"large", 120, -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRotationAccumulator(sensitivity)
			r.BeginDrag()
			r.Accumulate(tt.dx, tt.dy)

			got := Angle(r.ApplyAndReset(components.Identity))
			want := sensitivity * math.Hypot(tt.dx, tt.dy)
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("expected angle %g, got %g", want, got)
			}
		})
	}
}

func TestAccumulateChangesTransformByAngle(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(30, 40)

	start := r3.NewRotation(1.1, r3.Vec{Y: 1})
	out := r.ApplyAndReset(start)

	// The difference out * start^-1 is the applied rotation
	inv := r3.Rotation{Real: start.Real, Imag: -start.Imag, Jmag: -start.Jmag, Kmag: -start.Kmag}
	delta := Compose(out, inv)
	if got, want := Angle(delta), sensitivity*50; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected applied angle %g, got %g", want, got)
	}
}

func TestAccumulateAxis(t *testing.T) {
	// Dragging right rotates about +Y: (0,0,1) x (1,0,0) = (0,1,0)
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(100, 0)
	rot := r.ApplyAndReset(components.Identity)

	axis := rot.Rotate(r3.Vec{Y: 1})
	if r3.Norm(r3.Sub(axis, r3.Vec{Y: 1})) > 1e-12 {
		t.Errorf("expected +Y axis to be fixed, got %v", axis)
	}

	moved := rot.Rotate(r3.Vec{Z: 1})
	if math.Abs(r3.Dot(moved, r3.Vec{Z: 1})-math.Cos(0.5)) > 1e-12 {
		t.Errorf("expected +Z rotated by 0.5 rad, got %v", moved)
	}
}

func TestApplyAndResetResets(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(5, 5)
	first := r.ApplyAndReset(components.Identity)
	second := r.ApplyAndReset(first)

	if !rotationsEqual(first, second, 1e-12) {
		t.Errorf("expected second apply to be a no-op, got %v then %v", first, second)
	}
	if r.Pending() != components.Identity {
		t.Errorf("expected pending reset to identity, got %v", r.Pending())
	}
}

func TestIdleIgnoresStaleDeltas(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.Accumulate(50, 0) // not dragging

	tr := r3.NewRotation(0.3, r3.Vec{X: 1})
	if got := r.ApplyAndReset(tr); !rotationsEqual(got, tr, 1e-12) {
		t.Errorf("expected no rotation while idle, got %v", got)
	}

	// Stale delta must not leak into the next drag
	r.BeginDrag()
	if got := r.ApplyAndReset(tr); !rotationsEqual(got, tr, 1e-12) {
		t.Errorf("expected stale delta discarded, got %v", got)
	}
}

func TestEndDragDropsPending(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(20, 0)
	r.EndDrag()

	if r.Dragging() {
		t.Error("expected idle after EndDrag")
	}
	if r.Pending() != components.Identity {
		t.Errorf("expected pending dropped, got %v", r.Pending())
	}
}

func TestAccumulateComposesWithinFrame(t *testing.T) {
	r := NewRotationAccumulator(sensitivity)
	r.BeginDrag()
	r.Accumulate(10, 0)
	r.Accumulate(10, 0)

	got := Angle(r.ApplyAndReset(components.Identity))
	if want := sensitivity * 20; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected composed angle %g, got %g", want, got)
	}
}
