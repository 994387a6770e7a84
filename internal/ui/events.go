// Package ui holds the interactive state of the gradient studio.
// User actions are modelled as Events; Reduce maps a gradient.State and an
// Event to the next state, and Session re-renders after every transition.
package ui

import (
	"github.com/opd-ai/go-gradient/internal/gradient"
)

// Event is a user action that may change the studio state.
type Event interface {
	isEvent()
}

// SetColor replaces the color at Index.
type SetColor struct {
	Index int
	Value string
}

// AddColor appends gradient.NewColor to the color list.
type AddColor struct{}

// RemoveColor drops the last color. The list never shrinks below one color.
type RemoveColor struct{}

// SetAngle sets the linear angle from a numeric input.
type SetAngle struct {
	Degrees int
}

// DragAngle sets the angle from a pointer offset on the slider track.
type DragAngle struct {
	Offset float64
}

// SetType selects linear or radial output.
type SetType struct {
	Type gradient.Type
}

// ToggleType flips between linear and radial.
type ToggleType struct{}

// SetAnimation enables or disables the animation.
type SetAnimation struct {
	Enabled bool
}

// SetDuration changes the animation cycle length in seconds.
type SetDuration struct {
	Seconds float64
}

// ShiftHue rotates the hue of the color at Index.
type ShiftHue struct {
	Index   int
	Degrees float64
}

// SelectColor moves the color selection by Delta, wrapping around.
type SelectColor struct {
	Delta int
}

// Reset restores the default state.
type Reset struct{}

// TogglePanel minimizes or restores the control panel.
type TogglePanel struct{}

// Copy exports the current CSS declaration to the clipboard.
type Copy struct{}

func (SetColor) isEvent()     {}
func (AddColor) isEvent()     {}
func (RemoveColor) isEvent()  {}
func (SetAngle) isEvent()     {}
func (DragAngle) isEvent()    {}
func (SetType) isEvent()      {}
func (ToggleType) isEvent()   {}
func (SetAnimation) isEvent() {}
func (SetDuration) isEvent()  {}
func (ShiftHue) isEvent()     {}
func (SelectColor) isEvent()  {}
func (Reset) isEvent()        {}
func (TogglePanel) isEvent()  {}
func (Copy) isEvent()         {}
