package render

import (
	"image/color"
	"math"
	"testing"
)

func TestParseColorNamed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected color.RGBA
	}{
		{"red", "red", color.RGBA{R: 255, A: 255}},
		{"Red uppercase", "Red", color.RGBA{R: 255, A: 255}},
		{"green is css green", "green", color.RGBA{G: 128, A: 255}},
		{"lime", "lime", color.RGBA{G: 255, A: 255}},
		{"with spaces", "  navy  ", color.RGBA{B: 128, A: 255}},
		{"rebeccapurple", "rebeccapurple", color.RGBA{R: 102, G: 51, B: 153, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseColorFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected color.RGBA
		wantErr  bool
	}{
		{"#RRGGBB", "#FF0000", color.RGBA{R: 255, A: 255}, false},
		{"#rrggbb", "#1a2b3c", color.RGBA{R: 26, G: 43, B: 60, A: 255}, false},
		{"no hash", "00ff00", color.RGBA{G: 255, A: 255}, false},
		{"shorthand", "#f0a", color.RGBA{R: 255, B: 170, A: 255}, false},
		{"with alpha", "#ff000080", color.RGBA{R: 255, A: 128}, false},
		{"rgb()", "rgb(10, 20, 30)", color.RGBA{R: 10, G: 20, B: 30, A: 255}, false},
		{"RGB() uppercase", "RGB(1,2,3)", color.RGBA{R: 1, G: 2, B: 3, A: 255}, false},
		{"rgba() float", "rgba(255, 0, 0, 0.5)", color.RGBA{R: 255, A: 127}, false},
		{"rgba() int", "rgba(0, 0, 255, 64)", color.RGBA{B: 255, A: 64}, false},
		{"empty", "", color.RGBA{}, true},
		{"bad hex", "#gg0000", color.RGBA{}, true},
		{"bad length", "#12345", color.RGBA{}, true},
		{"rgb missing value", "rgb(1, 2)", color.RGBA{}, true},
		{"rgb overflow", "rgb(256, 0, 0)", color.RGBA{}, true},
		{"unknown", "notacolor", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := map[string]string{
		"#FF0000":          "#ff0000",
		"red":              "#ff0000",
		"#abc":             "#aabbcc",
		"rgb(0, 128, 255)": "#0080ff",
		"#11223344":        "#112233",
	}
	for in, want := range tests {
		got, err := NormalizeHex(in)
		if err != nil {
			t.Errorf("NormalizeHex(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeHex(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := NormalizeHex("bogus"); err == nil {
		t.Error("NormalizeHex(bogus) should fail")
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex(color.RGBA{R: 255, G: 128, B: 1, A: 255}); got != "#ff8001" {
		t.Errorf("ToHex opaque = %q", got)
	}
	if got := ToHex(color.RGBA{R: 255, A: 128}); got != "#ff000080" {
		t.Errorf("ToHex translucent = %q", got)
	}
}

func TestRGBAToHSLAndBack(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
		{R: 18, G: 200, B: 77, A: 255},
	}
	for _, c := range colors {
		back := HSLToRGBA(RGBAToHSL(c), c.A)
		if diff := maxChannelDiff(c, back); diff > 1 {
			t.Errorf("round trip %v -> %v (diff %d)", c, back, diff)
		}
	}
}

func TestAdjustHue(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	tests := []struct {
		degrees float64
		want    color.RGBA
	}{
		{120, color.RGBA{G: 255, A: 255}},
		{240, color.RGBA{B: 255, A: 255}},
		{-120, color.RGBA{B: 255, A: 255}},
		{360, red},
	}
	for _, tt := range tests {
		got := AdjustHue(red, tt.degrees)
		if diff := maxChannelDiff(got, tt.want); diff > 1 {
			t.Errorf("AdjustHue(red, %v) = %v, want %v", tt.degrees, got, tt.want)
		}
	}

	translucent := color.RGBA{R: 255, A: 100}
	if got := AdjustHue(translucent, 90); got.A != 100 {
		t.Errorf("alpha not preserved: %d", got.A)
	}
}

func TestLuminanceAndContrast(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	if l := Luminance(white); math.Abs(l-1) > 1e-9 {
		t.Errorf("Luminance(white) = %v", l)
	}
	if l := Luminance(black); l != 0 {
		t.Errorf("Luminance(black) = %v", l)
	}
	if !IsLight(white) || IsLight(black) {
		t.Error("IsLight misclassifies black/white")
	}
	if ContrastText(white) != black || ContrastText(black) != white {
		t.Error("ContrastText should pick the opposite extreme")
	}
}

func maxChannelDiff(a, b color.RGBA) int {
	d := 0
	for _, p := range [][2]uint8{{a.R, b.R}, {a.G, b.G}, {a.B, b.B}} {
		v := int(p[0]) - int(p[1])
		if v < 0 {
			v = -v
		}
		if v > d {
			d = v
		}
	}
	return d
}
