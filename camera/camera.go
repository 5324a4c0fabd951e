// Package camera provides a perspective camera for projecting the scene
// onto a viewport.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a look-at perspective camera.
type Camera struct {
	// Eye and Target in world coordinates
	Eye, Target r3.Vec

	// Up hint used to build the view basis
	Up r3.Vec

	// Vertical field of view in degrees
	FovY float64

	// Clipping planes
	Near, Far float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// View basis, rebuilt by LookAt
	right, up, forward r3.Vec
}

// New creates a camera at eye looking at target with +Y up.
func New(fovY, near, far float64, eye, target r3.Vec, viewportW, viewportH float64) *Camera {
	c := &Camera{
		FovY:      fovY,
		Near:      near,
		Far:       far,
		Up:        r3.Vec{Y: 1},
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
	c.LookAt(eye, target)
	return c
}

// LookAt repositions the camera and rebuilds its view basis.
func (c *Camera) LookAt(eye, target r3.Vec) {
	c.Eye = eye
	c.Target = target

	c.forward = r3.Unit(r3.Sub(target, eye))
	right := r3.Cross(c.forward, c.Up)
	if r3.Norm(right) == 0 {
		// Looking straight along Up; pick any perpendicular
		right = r3.Cross(c.forward, r3.Vec{Z: 1})
	}
	c.right = r3.Unit(right)
	c.up = r3.Cross(c.right, c.forward)
}

// Aspect returns the viewport aspect ratio.
func (c *Camera) Aspect() float64 {
	if c.ViewportH == 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Project maps a world point to screen coordinates (origin top-left, +Y
// down) and returns its view depth. ok is false when the point lies
// outside the near/far range.
func (c *Camera) Project(p r3.Vec) (sx, sy, depth float64, ok bool) {
	rel := r3.Sub(p, c.Eye)
	depth = r3.Dot(rel, c.forward)
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}

	x := r3.Dot(rel, c.right)
	y := r3.Dot(rel, c.up)

	// Half-height of the view frustum at unit depth
	tanHalf := math.Tan(c.FovY * math.Pi / 360)
	ndcX := x / (depth * tanHalf * c.Aspect())
	ndcY := y / (depth * tanHalf)

	sx = (ndcX + 1) * c.ViewportW / 2
	sy = (1 - ndcY) * c.ViewportH / 2
	return sx, sy, depth, true
}

// IsVisible returns true if the point projects inside the viewport.
func (c *Camera) IsVisible(p r3.Vec) bool {
	sx, sy, _, ok := c.Project(p)
	return ok && sx >= 0 && sx <= c.ViewportW && sy >= 0 && sy <= c.ViewportH
}

// Resize updates viewport dimensions; the aspect ratio follows.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW <= 0 || viewportH <= 0 {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}
