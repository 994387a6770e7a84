package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/opd-ai/go-gradient/internal/gradient"
)

// animatedScale mirrors the "background-size: 150% 150%" of animated output.
const animatedScale = 1.5

// RampStop is a parsed color at a position in [0, 1].
type RampStop struct {
	Position float64
	Color    colorful.Color
}

// Ramp interpolates between evenly distributed gradient stops in sRGB,
// which is how browsers interpolate gradients without a color-space hint.
type Ramp struct {
	stops []RampStop
}

// NewRamp builds a ramp from the engine's stop distribution, so preview
// pixels use exactly the percentages that appear in the exported CSS.
func NewRamp(colors []string) (*Ramp, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("ramp needs at least one color")
	}

	parse := func(s string) (colorful.Color, error) {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("parse stop color %q: %w", s, err)
		}
		return c, nil
	}

	if len(colors) == 1 {
		c, err := parse(colors[0])
		if err != nil {
			return nil, err
		}
		return &Ramp{stops: []RampStop{{Position: 0, Color: c}}}, nil
	}

	stops := gradient.ComputeStops(colors)
	r := &Ramp{stops: make([]RampStop, len(stops))}
	for i, st := range stops {
		c, err := parse(st.Color)
		if err != nil {
			return nil, err
		}
		r.stops[i] = RampStop{Position: float64(st.Percent) / 100, Color: c}
	}
	return r, nil
}

// Stops returns a copy of the ramp's stops.
func (r *Ramp) Stops() []RampStop {
	out := make([]RampStop, len(r.stops))
	copy(out, r.stops)
	return out
}

// At returns the color at position t. Positions outside [0, 1] take the
// nearest end color.
func (r *Ramp) At(t float64) colorful.Color {
	first, last := r.stops[0], r.stops[len(r.stops)-1]
	if len(r.stops) == 1 || t <= first.Position {
		return first.Color
	}
	if t >= last.Position {
		return last.Color
	}

	i := 1
	for i < len(r.stops) && r.stops[i].Position < t {
		i++
	}
	a, b := r.stops[i-1], r.stops[i]
	span := b.Position - a.Position
	if span <= 0 {
		return b.Color
	}
	return a.Color.BlendRgb(b.Color, (t-a.Position)/span)
}

// Rasterize paints the gradient described by s into a w×h image.
// phase in [0, 1] is the animation position (background-position x from
// 0% to 100%); it is ignored unless animation is enabled.
func Rasterize(s gradient.State, w, h int, phase float64) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", gradient.ErrInvalidGeometry, w, h)
	}
	ramp, err := NewRamp(s.Colors)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Canvas the gradient is laid out on and the viewport offset into it.
	cw, ch := float64(w), float64(h)
	var ox, oy float64
	if s.Animation.Enabled && len(s.Colors) > 1 {
		cw, ch = cw*animatedScale, ch*animatedScale
		ox = (cw - float64(w)) * clampUnit(phase)
		oy = (ch - float64(h)) * 0.5
	}

	sample := sampler(s, cw, ch)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := sample(float64(x)+0.5+ox, float64(y)+0.5+oy)
			r, g, b := ramp.At(t).Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img, nil
}

// AnimatedCanvasSize returns the background-size canvas for a w×h viewport.
func AnimatedCanvasSize(w, h int) (int, int) {
	return int(math.Ceil(float64(w) * animatedScale)), int(math.Ceil(float64(h) * animatedScale))
}

// RasterizeCanvas paints the whole canvas an animated gradient pans across,
// so callers can move a viewport over it instead of re-rasterizing each frame.
// For states without animation it is the same as Rasterize at phase 0.
func RasterizeCanvas(s gradient.State, w, h int) (*image.RGBA, error) {
	if !s.Animation.Enabled || len(s.Colors) < 2 {
		return Rasterize(s, w, h, 0)
	}
	still := s.Clone()
	still.Animation.Enabled = false
	cw, ch := AnimatedCanvasSize(w, h)
	return Rasterize(still, cw, ch, 0)
}

// PanOffset returns the top-left corner of a w×h viewport inside a cw×ch
// canvas at the given phase: x runs from 0% to 100%, y stays at 50%.
func PanOffset(w, h, cw, ch int, phase float64) (x, y float64) {
	return float64(cw-w) * clampUnit(phase), float64(ch-h) * 0.5
}

// sampler returns the gradient-line position for a canvas point, following
// CSS geometry: linear angles run clockwise from "to top" with a gradient
// line long enough to reach the corners; radial circles reach the farthest corner.
func sampler(s gradient.State, w, h float64) func(x, y float64) float64 {
	cx, cy := w/2, h/2

	if !s.Type.IsLinear() {
		radius := math.Hypot(cx, cy)
		return func(x, y float64) float64 {
			return math.Hypot(x-cx, y-cy) / radius
		}
	}

	rad := float64(s.Angle) * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)
	return func(x, y float64) float64 {
		return ((x-cx)*dx+(y-cy)*dy)/length + 0.5
	}
}

// AnimationPhase maps elapsed time onto the background-position of an
// "ease-in-out infinite alternate" animation with the given duration in seconds.
func AnimationPhase(elapsed time.Duration, duration float64) float64 {
	d := gradient.NormalizeDuration(duration)
	cycles := elapsed.Seconds() / d
	n := math.Floor(cycles)
	f := cycles - n
	if int64(n)%2 == 1 {
		f = 1 - f
	}
	return easeInOut(f)
}

// easeInOut evaluates cubic-bezier(0.42, 0, 0.58, 1) at x.
func easeInOut(x float64) float64 {
	x = clampUnit(x)
	const x1, x2 = 0.42, 0.58

	bez := func(t, p1, p2 float64) float64 {
		u := 1 - t
		return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
	}

	// Bisection on the x curve; it is monotonic for these control points.
	lo, hi := 0.0, 1.0
	t := x
	for i := 0; i < 32; i++ {
		if bez(t, x1, x2) < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bez(t, 0, 1)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
