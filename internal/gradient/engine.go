package gradient

import (
	"math"
	"strconv"
	"strings"
)

// CSS fragments emitted for animated gradients.
const (
	keyframesName      = "animateGradient"
	animatedBackground = "150% 150%"
	animationTiming    = "ease-in-out infinite alternate"
)

// ComputeStops distributes the colors evenly from 0% to 100%.
//
// Stop i of n gets round(100*i/(n-1)), rounded half-up in exact integer
// arithmetic so that exported CSS is byte-for-byte stable. A single color
// yields no stops; Render emits a solid background for that case.
func ComputeStops(colors []string) []Stop {
	n := len(colors)
	if n < 2 {
		return nil
	}

	den := n - 1
	stops := make([]Stop, n)
	for i, c := range colors {
		stops[i] = Stop{
			Color:   c,
			Percent: (200*i + den) / (2 * den),
		}
	}
	return stops
}

// Render produces the CSS and UI hints for the given state.
// It never mutates s.
func Render(s State) Result {
	res := Result{ShowAngleControl: s.Type.IsLinear()}

	if len(s.Colors) == 1 {
		res.Background = s.Colors[0]
		res.Declaration = backgroundLine(res.Background)
		return res
	}

	res.Background = backgroundValue(s.Type, s.Angle, ComputeStops(s.Colors))

	var b strings.Builder
	b.WriteString(backgroundLine(res.Background))

	if s.Animation.Enabled {
		style := animationStyle(s.Animation.Duration)
		res.Animation = &style
		writeAnimation(&b, style)
	}

	res.Declaration = b.String()
	return res
}

// backgroundValue builds the gradient function for the stop list.
func backgroundValue(t Type, angle int, stops []Stop) string {
	parts := make([]string, len(stops))
	for i, st := range stops {
		parts[i] = st.String()
	}
	list := strings.Join(parts, ", ")

	if t.IsLinear() {
		return "linear-gradient(" + strconv.Itoa(angle) + "deg, " + list + ")"
	}
	return "radial-gradient(circle, " + list + ")"
}

func backgroundLine(value string) string {
	return "background: " + value + ";"
}

// NormalizeDuration returns d, or DefaultDuration when d is not a positive
// finite number.
func NormalizeDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return DefaultDuration
	}
	return d
}

// FormatDuration renders a duration the way it appears in CSS ("5", "2.5").
func FormatDuration(d float64) string {
	return strconv.FormatFloat(NormalizeDuration(d), 'f', -1, 64)
}

func animationStyle(duration float64) AnimationStyle {
	return AnimationStyle{
		BackgroundSize: animatedBackground,
		Shorthand:      keyframesName + " " + FormatDuration(duration) + "s " + animationTiming,
	}
}

func writeAnimation(b *strings.Builder, style AnimationStyle) {
	b.WriteString("\nanimation: " + style.Shorthand + ";")
	b.WriteString("\nbackground-size: " + style.BackgroundSize + ";")
	b.WriteString("\n\n@keyframes " + keyframesName + " {")
	b.WriteString("\n  0% { background-position: 0% 50%; }")
	b.WriteString("\n  100% { background-position: 100% 50%; }")
	b.WriteString("\n}")
}
