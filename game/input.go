package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/platonic/telemetry"
	"github.com/pthm-cable/platonic/ui"
)

// Update reads input, applies queued control changes and runs
// stepsPerUpdate ticks. Input is applied before the first tick.
func (g *Game) Update() {
	g.perfCollector.BeginFrame()
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()
	g.applyActions()

	g.runTicks(g.stepsPerUpdate)
	g.perfCollector.EndFrame()
}

// handleInput processes keyboard, mouse and window events.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyOne) {
		g.ToggleBackground()
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.ToggleSphere()
	}
	if rl.IsKeyPressed(rl.KeyTab) && g.controls != nil {
		g.controls.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	g.handleDrag()
}

// handleDrag turns left-button drags outside the control panel into
// pending rotation.
func (g *Game) handleDrag() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		overPanel := g.controls != nil && g.controls.Contains(mouse.X, mouse.Y)
		if !overPanel {
			g.BeginDrag()
			g.lastMouseX, g.lastMouseY = mouse.X, mouse.Y
		}
	}

	if g.Dragging() && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.Accumulate(float64(mouse.X-g.lastMouseX), float64(mouse.Y-g.lastMouseY))
	}

	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.EndDrag()
	}

	g.lastMouseX, g.lastMouseY = mouse.X, mouse.Y
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.Resize(w, h)
}

// applyActions applies the control panel changes from the previous frame.
func (g *Game) applyActions() {
	act := g.pending
	g.pending = ui.Actions{}

	if act.HasActive {
		g.SetActiveCount(act.Active)
	}
	if act.HasIntensity {
		g.SetIntensity(act.Intensity)
	}
	if act.ToggleBackground {
		g.ToggleBackground()
	}
	if act.ToggleSphere {
		g.ToggleSphere()
	}
}
