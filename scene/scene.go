// Package scene holds the rotatable scene graph: a container node with a
// wireframe sphere and the particle point cloud as children.
package scene

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/components"
	"github.com/pthm-cable/platonic/config"
	"github.com/pthm-cable/platonic/systems"
)

// spinAxis is the axis the wireframe mesh idles around.
var spinAxis = r3.Vec{Y: -1}

// Scene owns the ECS world for the scene graph.
type Scene struct {
	world *ecs.World

	transforms *ecs.Map[components.Transform]
	nodes      *ecs.Map[components.Node]
	visible    *ecs.Map[components.Visible]
	wireframes *ecs.Map[components.Wireframe]
	clouds     *ecs.Map[components.PointCloud]

	container ecs.Entity
	sphere    ecs.Entity
	cloud     ecs.Entity

	spin *systems.SpinSystem
}

// New builds the scene graph from config.
func New(cfg *config.Config) *Scene {
	world := ecs.NewWorld()

	s := &Scene{
		world:      world,
		transforms: ecs.NewMap[components.Transform](world),
		nodes:      ecs.NewMap[components.Node](world),
		visible:    ecs.NewMap[components.Visible](world),
		wireframes: ecs.NewMap[components.Wireframe](world),
		clouds:     ecs.NewMap[components.PointCloud](world),
		spin:       systems.NewSpinSystem(world),
	}

	rootMapper := ecs.NewMap2[components.Transform, components.Node](world)
	s.container = rootMapper.NewEntity(
		&components.Transform{Rotation: components.Identity},
		&components.Node{},
	)

	sphereMapper := ecs.NewMap5[
		components.Transform,
		components.Node,
		components.Spin,
		components.Visible,
		components.Wireframe,
	](world)
	s.sphere = sphereMapper.NewEntity(
		&components.Transform{Rotation: components.Identity},
		&components.Node{Parent: s.container, HasParent: true},
		&components.Spin{Axis: spinAxis, Angle: cfg.Sphere.SpinPerTick},
		&components.Visible{On: true},
		&components.Wireframe{
			Radius: cfg.Derived.WireRadius,
			Rings:  cfg.Sphere.Rings,
			Slices: cfg.Sphere.Slices,
			RGB:    cfg.Derived.SphereRGB,
		},
	)

	cloudMapper := ecs.NewMap4[
		components.Transform,
		components.Node,
		components.Visible,
		components.PointCloud,
	](world)
	s.cloud = cloudMapper.NewEntity(
		&components.Transform{Rotation: components.Identity},
		&components.Node{Parent: s.container, HasParent: true},
		&components.Visible{On: true},
		&components.PointCloud{Size: cfg.Particles.Size},
	)

	return s
}

// Container returns the root node that drag rotation is applied to.
func (s *Scene) Container() ecs.Entity { return s.container }

// Sphere returns the wireframe sphere node.
func (s *Scene) Sphere() ecs.Entity { return s.sphere }

// Cloud returns the point cloud node.
func (s *Scene) Cloud() ecs.Entity { return s.cloud }

// ApplyToContainer replaces the container rotation with fn(current).
func (s *Scene) ApplyToContainer(fn func(r3.Rotation) r3.Rotation) {
	tr := s.transforms.Get(s.container)
	tr.Rotation = fn(tr.Rotation)
}

// ContainerRotation returns the container's current rotation.
func (s *Scene) ContainerRotation() r3.Rotation {
	return s.transforms.Get(s.container).Rotation
}

// localRotation returns a node's rotation relative to its parent.
func (s *Scene) localRotation(e ecs.Entity) r3.Rotation {
	return s.transforms.Get(e).Rotation
}

// WorldRotation composes the node's rotation with all of its ancestors.
func (s *Scene) WorldRotation(e ecs.Entity) r3.Rotation {
	rot := s.localRotation(e)
	node := s.nodes.Get(e)
	for node.HasParent {
		parent := node.Parent
		rot = systems.Compose(s.localRotation(parent), rot)
		node = s.nodes.Get(parent)
	}
	return rot
}

// ToWorld maps a point in the node's frame to world coordinates.
func (s *Scene) ToWorld(e ecs.Entity, p r3.Vec) r3.Vec {
	return s.WorldRotation(e).Rotate(p)
}

// Visible reports whether a node is drawn.
func (s *Scene) Visible(e ecs.Entity) bool {
	if !s.visible.Has(e) {
		return true
	}
	return s.visible.Get(e).On
}

// ToggleSphere flips the wireframe sphere's visibility and returns the new state.
func (s *Scene) ToggleSphere() bool {
	v := s.visible.Get(s.sphere)
	v.On = !v.On
	return v.On
}

// Wireframe returns the sphere's mesh description.
func (s *Scene) Wireframe() components.Wireframe {
	return *s.wireframes.Get(s.sphere)
}

// PointCloud returns the point cloud's render settings.
func (s *Scene) PointCloud() components.PointCloud {
	return *s.clouds.Get(s.cloud)
}

// Update advances per-tick scene animation.
func (s *Scene) Update() {
	s.spin.Update()
}
