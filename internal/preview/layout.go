package preview

import (
	"strings"

	"github.com/opd-ai/go-gradient/internal/ui"
)

// Panel geometry in pixels.
const (
	padding      = 12.0
	rowGap       = 8.0
	swatchSize   = 24.0
	swatchGap    = 6.0
	sliderRowH   = 20.0
	trackHeight  = 4.0
	handleHeight = 16.0
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout positions the control panel for one frame.
type Layout struct {
	Panel Rect
	// Status is the origin of the "linear 90deg" summary line.
	StatusX, StatusY float64
	// Track is the slider track; zero when the angle control is hidden.
	Track Rect
	// SliderHit is the area that starts a slider drag.
	SliderHit Rect
	Swatches  []Rect
	// Code lines are the wrapped CSS declaration.
	Code         []string
	CodeX, CodeY float64
	HelpX, HelpY float64
	LineHeight   float64
}

// ComputeLayout lays out the panel along the bottom of a w×h window.
// charWidth is the advance of one monospace glyph; it drives wrapping of
// the CSS text. A minimized panel collapses to a single hint line.
func ComputeLayout(w, h int, v ui.View, lineHeight, charWidth float64) Layout {
	fw, fh := float64(w), float64(h)
	l := Layout{LineHeight: lineHeight}

	if v.Minimized {
		panelH := lineHeight + 2*padding
		l.Panel = Rect{X: 0, Y: fh - panelH, W: fw, H: panelH}
		l.HelpX, l.HelpY = padding, l.Panel.Y+padding
		return l
	}

	maxChars := 0
	if charWidth > 0 {
		maxChars = int((fw - 2*padding) / charWidth)
	}
	for _, line := range strings.Split(v.Result.Declaration, "\n") {
		l.Code = append(l.Code, wrapLine(line, maxChars)...)
	}

	panelH := 2*padding + lineHeight + rowGap
	if v.Result.ShowAngleControl {
		panelH += sliderRowH + rowGap
	}
	panelH += swatchSize + rowGap
	panelH += float64(len(l.Code))*lineHeight + rowGap
	panelH += lineHeight

	top := fh - panelH
	if top < 0 {
		top = 0
	}
	l.Panel = Rect{X: 0, Y: top, W: fw, H: fh - top}

	y := top + padding
	l.StatusX, l.StatusY = padding, y
	y += lineHeight + rowGap

	if v.Result.ShowAngleControl {
		l.Track = Rect{
			X: padding + v.Slider.Handle/2,
			Y: y + (sliderRowH-trackHeight)/2,
			W: v.Slider.Track,
			H: trackHeight,
		}
		l.SliderHit = Rect{X: padding, Y: y, W: v.Slider.Track + v.Slider.Handle, H: sliderRowH}
		y += sliderRowH + rowGap
	}

	l.Swatches = make([]Rect, len(v.State.Colors))
	for i := range v.State.Colors {
		l.Swatches[i] = Rect{
			X: padding + float64(i)*(swatchSize+swatchGap),
			Y: y,
			W: swatchSize,
			H: swatchSize,
		}
	}
	y += swatchSize + rowGap

	l.CodeX, l.CodeY = padding, y
	y += float64(len(l.Code))*lineHeight + rowGap
	l.HelpX, l.HelpY = padding, y
	return l
}

// Handle returns the slider handle rectangle for the view.
func (l Layout) Handle(v ui.View) Rect {
	return Rect{
		X: l.Track.X + v.HandleX,
		Y: l.Track.Y + (trackHeight-handleHeight)/2,
		W: v.Slider.Handle,
		H: handleHeight,
	}
}

// SwatchAt returns the index of the swatch under (x, y).
func (l Layout) SwatchAt(x, y float64) (int, bool) {
	for i, r := range l.Swatches {
		if r.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// wrapLine splits line into chunks of at most maxChars runes, preferring
// to break after ", ". maxChars <= 0 disables wrapping.
func wrapLine(line string, maxChars int) []string {
	runes := []rune(line)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{line}
	}

	var out []string
	indent := "    "
	first := true
	for len(runes) > 0 {
		limit := maxChars
		if !first {
			limit -= len(indent)
		}
		if limit < 1 {
			limit = 1
		}
		if len(runes) <= limit {
			out = append(out, prefix(first, indent)+string(runes))
			break
		}

		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == ' ' && i >= 2 && runes[i-2] == ',' {
				cut = i
				break
			}
		}
		out = append(out, prefix(first, indent)+strings.TrimRight(string(runes[:cut]), " "))
		runes = runes[cut:]
		first = false
	}
	return out
}

func prefix(first bool, indent string) string {
	if first {
		return ""
	}
	return indent
}
