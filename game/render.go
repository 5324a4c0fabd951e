package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/platonic/ui"
)

// Palette
var (
	darkBg        = rl.Black
	lightBg       = rl.White
	particleDark  = rl.Color{R: 235, G: 245, B: 255, A: 220}
	particleLight = rl.Color{R: 20, G: 40, B: 60, A: 230}
)

// Draw renders the scene and the control panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	g.DrawScene()
	g.drawUI()
	rl.EndDrawing()
}

// DrawScene clears the current render target and draws the sphere and
// particles. It does not begin or end a frame.
func (g *Game) DrawScene() {
	if g.darkBackground {
		rl.ClearBackground(darkBg)
	} else {
		rl.ClearBackground(lightBg)
	}

	rl.BeginMode3D(g.camera3D())
	g.drawSphere()
	g.drawParticles()
	rl.EndMode3D()
}

// camera3D builds the raylib camera from the simulation camera. Aspect
// follows the window; clip planes use raylib's defaults.
func (g *Game) camera3D() rl.Camera3D {
	c := g.camera
	return rl.Camera3D{
		Position:   toVector3(c.Eye),
		Target:     toVector3(c.Target),
		Up:         toVector3(c.Up),
		Fovy:       float32(c.FovY),
		Projection: rl.CameraPerspective,
	}
}

// drawSphere draws the wireframe mesh under its world rotation.
func (g *Game) drawSphere() {
	sphere := g.scene.Sphere()
	if !g.scene.Visible(sphere) {
		return
	}
	wf := g.scene.Wireframe()
	color := rl.Color{R: wf.RGB[0], G: wf.RGB[1], B: wf.RGB[2], A: 255}

	axis, deg := axisAngle(g.scene.WorldRotation(sphere))

	rl.PushMatrix()
	rl.Rotatef(float32(deg), float32(axis.X), float32(axis.Y), float32(axis.Z))
	rl.DrawSphereWires(rl.Vector3{}, float32(wf.Radius), int32(wf.Rings), int32(wf.Slices), color)
	rl.PopMatrix()
}

// drawParticles draws the active points. On the dark background they glow
// with additive blending.
func (g *Game) drawParticles() {
	cloud := g.scene.Cloud()
	if !g.scene.Visible(cloud) {
		return
	}
	size := float32(g.scene.PointCloud().Size)

	color := particleLight
	if g.darkBackground {
		color = particleDark
		rl.BeginBlendMode(rl.BlendAdditive)
		defer rl.EndBlendMode()
	}

	g.activeBuf = g.WorldPositions(g.activeBuf[:0])
	for _, p := range g.activeBuf {
		rl.DrawSphereEx(toVector3(p), size, 6, 8, color)
	}
}

// drawUI draws the control panel and the status line. Panel changes are
// queued and applied at the start of the next Update.
func (g *Game) drawUI() {
	if g.controls != nil {
		act := g.controls.Draw(ui.State{
			Active:         g.pool.ActiveCount(),
			MinActive:      g.pool.Min(),
			MaxActive:      g.pool.Cap(),
			Intensity:      g.intensity,
			MinIntensity:   g.cfg.Force.MinIntensity,
			MaxIntensity:   g.cfg.Force.MaxIntensity,
			SphereVisible:  g.scene.Visible(g.scene.Sphere()),
			DarkBackground: g.darkBackground,
			Tick:           g.tick,
		})
		if act.Any() {
			g.pending = act
		}
	}

	textColor := rl.LightGray
	if !g.darkBackground {
		textColor = rl.DarkGray
	}
	status := fmt.Sprintf("FPS %d  x%d  drag to rotate  [1] background  [2] sphere  [tab] panel", rl.GetFPS(), g.stepsPerUpdate)
	rl.DrawText(status, 10, int32(g.screenHeight)-22, 14, textColor)
}

func toVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
