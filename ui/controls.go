package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the particle count and intensity sliders and the
// background/sphere toggle buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	r := NewRenderer()
	t := r.Theme
	height := t.Padding*2 + t.LineHeight*3 + (t.SliderHeight+t.LineHeight)*2 + t.ButtonHeight + t.Padding*2
	return &ControlsPanel{
		renderer: r,
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel, so drags
// starting there are left to the widgets.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height)
}

// Draw renders the panel and returns the changes the user made this frame.
func (c *ControlsPanel) Draw(s State) Actions {
	var act Actions
	if !c.visible {
		return act
	}

	r := c.renderer
	t := r.Theme
	pad := t.Padding
	inner := float32(c.width - pad*2 - 40)

	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := c.x + pad
	y := r.DrawSectionHeader(x, c.y+pad, "Platonic")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", s.Tick))
	y += t.LineHeight / 2

	// Particle count slider
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", s.Active))
	newActive := gui.SliderBar(
		rl.Rectangle{X: float32(x + 20), Y: float32(y), Width: inner, Height: float32(t.SliderHeight)},
		fmt.Sprintf("%d", s.MinActive), fmt.Sprintf("%d", s.MaxActive),
		float32(s.Active), float32(s.MinActive), float32(s.MaxActive),
	)
	if n := int(newActive + 0.5); n != s.Active {
		act.Active = n
		act.HasActive = true
	}
	y += t.SliderHeight + t.LineHeight/2

	// Intensity slider, whole steps
	y = r.DrawLabelValue(x, y, "Intensity", fmt.Sprintf("%d", int(s.Intensity)))
	newIntensity := gui.SliderBar(
		rl.Rectangle{X: float32(x + 20), Y: float32(y), Width: inner, Height: float32(t.SliderHeight)},
		fmt.Sprintf("%d", int(s.MinIntensity)), fmt.Sprintf("%d", int(s.MaxIntensity)),
		float32(s.Intensity), float32(s.MinIntensity), float32(s.MaxIntensity),
	)
	if v := float64(int(newIntensity)); v != float64(int(s.Intensity)) {
		act.Intensity = v
		act.HasIntensity = true
	}
	y += t.SliderHeight + t.LineHeight/2

	// Toggles
	half := float32(c.width-pad*3) / 2
	bgLabel := "Light [1]"
	if !s.DarkBackground {
		bgLabel = "Dark [1]"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, bgLabel) {
		act.ToggleBackground = true
	}
	sphereLabel := "Hide sphere [2]"
	if !s.SphereVisible {
		sphereLabel = "Show sphere [2]"
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + float32(pad), Y: float32(y), Width: half, Height: float32(t.ButtonHeight)}, sphereLabel) {
		act.ToggleSphere = true
	}

	return act
}
