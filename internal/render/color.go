// Package render provides color handling and software rasterization for
// go-gradient previews. Nothing in this package depends on a window system,
// so it is usable from headless exports as well as the preview window.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// NamedColors maps CSS color names to their RGBA values.
// Presets may use these names; they are normalized to #rrggbb on load.
var NamedColors = map[string]color.RGBA{
	"black":         {R: 0, G: 0, B: 0, A: 255},
	"white":         {R: 255, G: 255, B: 255, A: 255},
	"red":           {R: 255, G: 0, B: 0, A: 255},
	"green":         {R: 0, G: 128, B: 0, A: 255},
	"blue":          {R: 0, G: 0, B: 255, A: 255},
	"yellow":        {R: 255, G: 255, B: 0, A: 255},
	"cyan":          {R: 0, G: 255, B: 255, A: 255},
	"magenta":       {R: 255, G: 0, B: 255, A: 255},
	"gray":          {R: 128, G: 128, B: 128, A: 255},
	"grey":          {R: 128, G: 128, B: 128, A: 255},
	"silver":        {R: 192, G: 192, B: 192, A: 255},
	"maroon":        {R: 128, G: 0, B: 0, A: 255},
	"olive":         {R: 128, G: 128, B: 0, A: 255},
	"lime":          {R: 0, G: 255, B: 0, A: 255},
	"aqua":          {R: 0, G: 255, B: 255, A: 255},
	"teal":          {R: 0, G: 128, B: 128, A: 255},
	"navy":          {R: 0, G: 0, B: 128, A: 255},
	"fuchsia":       {R: 255, G: 0, B: 255, A: 255},
	"purple":        {R: 128, G: 0, B: 128, A: 255},
	"orange":        {R: 255, G: 165, B: 0, A: 255},
	"pink":          {R: 255, G: 192, B: 203, A: 255},
	"coral":         {R: 255, G: 127, B: 80, A: 255},
	"gold":          {R: 255, G: 215, B: 0, A: 255},
	"indigo":        {R: 75, G: 0, B: 130, A: 255},
	"violet":        {R: 238, G: 130, B: 238, A: 255},
	"turquoise":     {R: 64, G: 224, B: 208, A: 255},
	"salmon":        {R: 250, G: 128, B: 114, A: 255},
	"crimson":       {R: 220, G: 20, B: 60, A: 255},
	"tomato":        {R: 255, G: 99, B: 71, A: 255},
	"hotpink":       {R: 255, G: 105, B: 180, A: 255},
	"skyblue":       {R: 135, G: 206, B: 235, A: 255},
	"seagreen":      {R: 46, G: 139, B: 87, A: 255},
	"rebeccapurple": {R: 102, G: 51, B: 153, A: 255},
}

// ParseColor parses a color string and returns an RGBA color.
// Supported formats:
//   - Named colors: "red", "rebeccapurple", ...
//   - Hex: "#RGB", "#RRGGBB", "#RRGGBBAA" (the leading # is optional)
//   - Functions: "rgb(255, 0, 0)", "rgba(255, 0, 0, 0.5)"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	if clr, ok := NamedColors[strings.ToLower(s)]; ok {
		return clr, nil
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "#") || isHexString(s):
		return parseHexColor(s)
	case strings.HasPrefix(lower, "rgba("):
		return parseColorFunc(s, "rgba(", 4)
	case strings.HasPrefix(lower, "rgb("):
		return parseColorFunc(s, "rgb(", 3)
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// NormalizeHex parses s and returns it as lower-case #rrggbb.
// This is the only form the gradient engine is fed.
func NormalizeHex(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	c.A = 255
	return ToHex(c), nil
}

func isHexString(s string) bool {
	switch len(s) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

// parseHexColor parses #RGB, #RRGGBB and #RRGGBBAA.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}

	var ch [4]uint8
	ch[3] = 255
	names := [4]string{"red", "green", "blue", "alpha"}
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s component: %w", names[i], err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// parseColorFunc parses rgb(r, g, b) and rgba(r, g, b, a).
func parseColorFunc(s, prefix string, n int) (color.RGBA, error) {
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid %s) format: %q", prefix, s)
	}
	parts := strings.Split(s[len(prefix):len(s)-1], ",")
	if len(parts) != n {
		return color.RGBA{}, fmt.Errorf("%s) requires exactly %d values, got %d", prefix, n, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid channel %d: %w", i, err)
		}
		ch[i] = uint8(v)
	}

	alpha := uint8(255)
	if n == 4 {
		a, err := parseAlphaComponent(strings.TrimSpace(parts[3]))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha value: %w", err)
		}
		alpha = a
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// parseAlphaComponent accepts 0-255 integers and 0.0-1.0 floats.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return uint8(math.Max(0, math.Min(1, val)) * 255), nil
	}

	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}

// ToHex formats a color as lower-case #rrggbb, or #rrggbbaa when it is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// HSL represents a color in Hue-Saturation-Lightness space.
// H is in range [0, 360), S and L are in range [0, 1].
type HSL struct {
	H, S, L float64
}

// RGBAToHSL converts an RGBA color to HSL.
func RGBAToHSL(c color.RGBA) HSL {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	l := (maxVal + minVal) / 2

	if maxVal == minVal {
		return HSL{H: 0, S: 0, L: l}
	}

	d := maxVal - minVal
	var h, s float64
	if l > 0.5 {
		s = d / (2 - maxVal - minVal)
	} else {
		s = d / (maxVal + minVal)
	}

	switch maxVal {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}

	return HSL{H: h * 60, S: s, L: l}
}

// HSLToRGBA converts an HSL color to RGBA with the specified alpha.
func HSLToRGBA(hsl HSL, alpha uint8) color.RGBA {
	if hsl.S == 0 {
		l := uint8(math.Round(hsl.L * 255))
		return color.RGBA{R: l, G: l, B: l, A: alpha}
	}

	var q float64
	if hsl.L < 0.5 {
		q = hsl.L * (1 + hsl.S)
	} else {
		q = hsl.L + hsl.S - hsl.L*hsl.S
	}
	p := 2*hsl.L - q
	h := hsl.H / 360.0

	return color.RGBA{
		R: uint8(math.Round(hueToRGB(p, q, h+1.0/3.0) * 255)),
		G: uint8(math.Round(hueToRGB(p, q, h) * 255)),
		B: uint8(math.Round(hueToRGB(p, q, h-1.0/3.0) * 255)),
		A: alpha,
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// AdjustHue rotates the hue by the specified degrees, keeping alpha.
func AdjustHue(c color.RGBA, degrees float64) color.RGBA {
	hsl := RGBAToHSL(c)
	hsl.H = math.Mod(hsl.H+degrees, 360)
	if hsl.H < 0 {
		hsl.H += 360
	}
	return HSLToRGBA(hsl, c.A)
}

// Luminance returns the relative luminance of a color (0.0-1.0).
func Luminance(c color.RGBA) float64 {
	r := sRGBToLinear(float64(c.R) / 255.0)
	g := sRGBToLinear(float64(c.G) / 255.0)
	b := sRGBToLinear(float64(c.B) / 255.0)

	// ITU-R BT.709 coefficients
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func sRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// IsLight reports whether dark text reads better than light text on c.
func IsLight(c color.RGBA) bool {
	return Luminance(c) > 0.5
}

// ContrastText returns black or white, whichever contrasts with bg.
func ContrastText(bg color.RGBA) color.RGBA {
	if IsLight(bg) {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}
