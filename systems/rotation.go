package systems

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
)

// viewForward is the axis pointing into the screen.
var viewForward = r3.Vec{Z: 1}

// RotationAccumulator turns pointer drag deltas into a pending scene
// rotation. The pending rotation is only applied while dragging.
//
// States: Idle -> Dragging on BeginDrag, Dragging -> Idle on EndDrag.
type RotationAccumulator struct {
	sensitivity float64
	pending     r3.Rotation
	dragging    bool
}

// NewRotationAccumulator creates an idle accumulator. sensitivity is the
// rotation angle in radians per unit of drag length.
func NewRotationAccumulator(sensitivity float64) *RotationAccumulator {
	return &RotationAccumulator{
		sensitivity: sensitivity,
		pending:     components.Identity,
	}
}

// BeginDrag enters the Dragging state.
func (r *RotationAccumulator) BeginDrag() {
	r.dragging = true
}

// EndDrag returns to Idle and drops any pending rotation.
func (r *RotationAccumulator) EndDrag() {
	r.dragging = false
	r.pending = components.Identity
}

// Dragging reports whether a drag is in progress.
func (r *RotationAccumulator) Dragging() bool {
	return r.dragging
}

// Pending returns the rotation that the next ApplyAndReset would apply.
func (r *RotationAccumulator) Pending() r3.Rotation {
	return r.pending
}

// Accumulate adds the rotation for a drag of (dx, dy): about the axis
// (0,0,1) x (dx,dy,0) by sensitivity*|(dx,dy)| radians. Several calls
// within one frame compose. A zero-length (or non-finite) delta is ignored.
func (r *RotationAccumulator) Accumulate(dx, dy float64) {
	length := math.Hypot(dx, dy)
	if !(length > 0) || math.IsInf(length, 0) {
		return
	}
	axis := r3.Cross(viewForward, r3.Vec{X: dx, Y: dy})
	step := r3.NewRotation(r.sensitivity*length, axis)
	r.pending = Compose(step, r.pending)
}

// ApplyAndReset composes the pending rotation onto t and resets the
// pending rotation to identity. While idle, t is returned unchanged and
// stale pending rotation is discarded.
func (r *RotationAccumulator) ApplyAndReset(t r3.Rotation) r3.Rotation {
	if !r.dragging {
		r.pending = components.Identity
		return t
	}
	out := Compose(r.pending, t)
	r.pending = components.Identity
	return out
}

// Compose returns the rotation that applies b first and then a,
// renormalized to unit length.
func Compose(a, b r3.Rotation) r3.Rotation {
	q := quat.Mul(quat.Number(a), quat.Number(b))
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	return r3.Rotation(q)
}

// Angle returns the rotation angle of a unit rotation in [0, pi].
func Angle(rot r3.Rotation) float64 {
	v := math.Sqrt(rot.Imag*rot.Imag + rot.Jmag*rot.Jmag + rot.Kmag*rot.Kmag)
	return 2 * math.Atan2(v, math.Abs(rot.Real))
}
