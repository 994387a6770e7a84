// Package gradient implements the gradient composition engine for go-gradient.
// It turns an ordered list of colors, a gradient type, an angle and animation
// settings into a CSS background value, an exportable CSS declaration and the
// UI hints that must stay consistent with that CSS.
//
// Every function in this package is pure and safe for concurrent use.
package gradient

import (
	"fmt"
	"strings"
)

// Type selects the CSS gradient function.
type Type int

const (
	// Linear renders a linear-gradient() along the configured angle.
	Linear Type = iota
	// Radial renders a radial-gradient(circle, ...) from the center.
	// The angle is ignored.
	Radial
)

// String returns the CSS-facing name of the gradient type.
func (t Type) String() string {
	switch t {
	case Linear:
		return "linear"
	case Radial:
		return "radial"
	default:
		return "unknown"
	}
}

// IsLinear reports whether t renders as a linear gradient. Any value other
// than Radial is treated as linear.
func (t Type) IsLinear() bool {
	return t != Radial
}

// ParseType parses "linear" or "radial" (case-insensitive).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, nil
	case "radial":
		return Radial, nil
	default:
		return Linear, fmt.Errorf("unknown gradient type: %q", s)
	}
}

// Defaults used by DefaultState and by the duration fallback.
const (
	// DefaultDuration is the animation cycle length in seconds used when the
	// supplied duration is not a positive finite number.
	DefaultDuration = 5.0
	// DefaultAngle is the initial linear gradient angle in degrees.
	DefaultAngle = 90
	// MaxAngle is the largest angle accepted by the angle control.
	MaxAngle = 360
	// NewColor is the color appended when the user adds a color.
	NewColor = "#000000"
)

// Animation controls the optional background-position animation.
type Animation struct {
	// Enabled adds the animation and keyframes to the rendered CSS.
	Enabled bool
	// Duration is the cycle length in seconds.
	Duration float64
}

// State is the complete input of the engine.
// Colors must never be empty; the engine does not validate color strings.
type State struct {
	Colors    []string
	Type      Type
	Angle     int
	Animation Animation
}

// DefaultState returns the state the studio starts with.
func DefaultState() State {
	return State{
		Colors:    []string{"#ff0000", "#0000ff"},
		Type:      Linear,
		Angle:     DefaultAngle,
		Animation: Animation{Enabled: false, Duration: DefaultDuration},
	}
}

// Clone returns a copy of the state that shares no memory with s.
func (s State) Clone() State {
	c := s
	c.Colors = make([]string, len(s.Colors))
	copy(c.Colors, s.Colors)
	return c
}

// Stop is a single color anchor with its position in percent.
type Stop struct {
	Color   string
	Percent int
}

// String formats the stop as it appears in a CSS gradient function.
func (s Stop) String() string {
	return fmt.Sprintf("%s %d%%", s.Color, s.Percent)
}

// AnimationStyle holds the inline style properties applied to the preview
// while animation is enabled.
type AnimationStyle struct {
	BackgroundSize string
	Shorthand      string
}

// Result is produced fresh by every Render call.
type Result struct {
	// Background is the value of the CSS background property.
	Background string
	// Declaration is the full exportable CSS text.
	Declaration string
	// ShowAngleControl reports whether the angle control is meaningful.
	ShowAngleControl bool
	// Animation is nil unless animation is enabled on a multi-color state.
	Animation *AnimationStyle
}
