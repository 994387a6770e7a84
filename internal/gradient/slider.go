package gradient

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a slider track has no usable width.
// Callers must always supply a positive track width; seeing this error
// means the UI layer broke its contract.
var ErrInvalidGeometry = errors.New("invalid slider geometry")

// AngleFromSliderOffset converts a pointer offset on the angle track into
// whole degrees in [0, MaxAngle]. Offsets outside the track are clamped so
// that drags past either end pin the angle.
func AngleFromSliderOffset(offset, track float64) (int, error) {
	if !(track > 0) || math.IsInf(track, 0) {
		return 0, fmt.Errorf("%w: track width %v", ErrInvalidGeometry, track)
	}
	offset = clamp(offset, 0, track)
	return roundHalfUp(MaxAngle * offset / track), nil
}

// SliderOffset is the inverse of AngleFromSliderOffset.
func SliderOffset(angle int, track float64) float64 {
	a := clamp(float64(angle), 0, MaxAngle)
	return track * a / MaxAngle
}

// HandleOffset returns the left edge of a handle centered on offset.
func HandleOffset(offset, handleWidth float64) float64 {
	return offset - handleWidth/2
}

// ClampAngle limits an angle to [0, MaxAngle].
func ClampAngle(angle int) int {
	if angle < 0 {
		return 0
	}
	if angle > MaxAngle {
		return MaxAngle
	}
	return angle
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
