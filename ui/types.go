// Package ui provides the on-screen control panel for the simulation.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		SliderHeight:   18,
		ButtonHeight:   26,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// State is the simulation state the panel displays.
type State struct {
	Active, MinActive, MaxActive int
	Intensity                    float64
	MinIntensity, MaxIntensity   float64
	SphereVisible                bool
	DarkBackground               bool
	Tick                         int32
}

// Actions are the changes requested through the panel during one frame.
// The game applies them before the next tick.
type Actions struct {
	Active       int
	HasActive    bool
	Intensity    float64
	HasIntensity bool

	ToggleBackground bool
	ToggleSphere     bool
}

// Any reports whether the panel requested any change.
func (a Actions) Any() bool {
	return a.HasActive || a.HasIntensity || a.ToggleBackground || a.ToggleSphere
}
