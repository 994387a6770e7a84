package ui

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/render"
)

// ErrColorIndex is returned for events that address a color that does not exist.
var ErrColorIndex = errors.New("color index out of range")

// Slider describes the geometry of the angle control in pixels.
type Slider struct {
	// Track is the usable width of the slider track.
	Track float64
	// Handle is the width of the draggable handle.
	Handle float64
}

// DefaultSlider is the slider geometry used by the preview window.
var DefaultSlider = Slider{Track: 360, Handle: 12}

// HandleLeft returns the left edge of the handle for the given angle.
func (sl Slider) HandleLeft(angle int) float64 {
	return gradient.HandleOffset(gradient.SliderOffset(angle, sl.Track), sl.Handle)
}

// Reducer computes state transitions.
// Initial is the state restored by Reset.
type Reducer struct {
	Slider  Slider
	Initial gradient.State
}

// NewReducer returns a Reducer with the default slider and state.
func NewReducer() Reducer {
	return Reducer{Slider: DefaultSlider, Initial: gradient.DefaultState()}
}

// Reduce returns the state that results from applying ev to s.
// s is never modified. Events that only affect presentation (selection,
// panel, copy) return s unchanged.
func (r Reducer) Reduce(s gradient.State, ev Event) (gradient.State, error) {
	next := s.Clone()

	switch e := ev.(type) {
	case SetColor:
		if e.Index < 0 || e.Index >= len(next.Colors) {
			return s, fmt.Errorf("%w: %d", ErrColorIndex, e.Index)
		}
		next.Colors[e.Index] = e.Value

	case AddColor:
		next.Colors = append(next.Colors, gradient.NewColor)

	case RemoveColor:
		if len(next.Colors) > 1 {
			next.Colors = next.Colors[:len(next.Colors)-1]
		}

	case SetAngle:
		next.Angle = gradient.ClampAngle(e.Degrees)

	case DragAngle:
		angle, err := gradient.AngleFromSliderOffset(e.Offset, r.Slider.Track)
		if err != nil {
			return s, err
		}
		next.Angle = angle

	case SetType:
		next.Type = e.Type

	case ToggleType:
		if next.Type == gradient.Linear {
			next.Type = gradient.Radial
		} else {
			next.Type = gradient.Linear
		}

	case SetAnimation:
		next.Animation.Enabled = e.Enabled

	case SetDuration:
		next.Animation.Duration = e.Seconds

	case ShiftHue:
		if e.Index < 0 || e.Index >= len(next.Colors) {
			return s, fmt.Errorf("%w: %d", ErrColorIndex, e.Index)
		}
		c, err := render.ParseColor(next.Colors[e.Index])
		if err != nil {
			return s, fmt.Errorf("shift hue: %w", err)
		}
		next.Colors[e.Index] = render.ToHex(render.AdjustHue(c, e.Degrees))

	case Reset:
		next = r.Initial.Clone()

	case SelectColor, TogglePanel, Copy:
		// presentation only

	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}

	return next, nil
}
