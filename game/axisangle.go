package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// axisAngle converts a unit rotation to a unit axis and an angle in degrees,
// the form rlgl's matrix stack takes. The identity maps to angle 0 about +Y.
func axisAngle(rot r3.Rotation) (axis r3.Vec, degrees float64) {
	v := r3.Vec{X: rot.Imag, Y: rot.Jmag, Z: rot.Kmag}
	n := r3.Norm(v)
	if n < 1e-12 {
		return r3.Vec{Y: 1}, 0
	}
	angle := 2 * math.Atan2(n, rot.Real)
	return r3.Scale(1/n, v), angle * 180 / math.Pi
}
