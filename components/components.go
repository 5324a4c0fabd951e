// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the rotation that leaves every vector unchanged.
var Identity = r3.Rotation{Real: 1}

// Transform holds a scene node's local orientation relative to its parent.
type Transform struct {
	Rotation r3.Rotation
}

// Node links a scene entity to its parent. The root has HasParent false.
type Node struct {
	Parent    ecs.Entity
	HasParent bool
}

// Spin rotates a node by a fixed angle about a fixed axis every tick.
type Spin struct {
	Axis  r3.Vec
	Angle float64 // radians per tick
}

// Visible toggles rendering of a node.
type Visible struct {
	On bool
}

// Wireframe describes a wireframe sphere mesh.
type Wireframe struct {
	Radius float64
	Rings  int
	Slices int
	RGB    [3]uint8
}

// PointCloud marks the node whose frame the particle pool positions live in.
type PointCloud struct {
	Size float64 // render size of each point
}
