package gradient

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeStops(t *testing.T) {
	tests := []struct {
		name   string
		colors []string
		want   []Stop
	}{
		{"single color", []string{"#ff0000"}, nil},
		{"two colors", []string{"#ff0000", "#0000ff"}, []Stop{{"#ff0000", 0}, {"#0000ff", 100}}},
		{"three colors", []string{"#ff0000", "#00ff00", "#0000ff"}, []Stop{
			{"#ff0000", 0}, {"#00ff00", 50}, {"#0000ff", 100},
		}},
		{"four colors round", []string{"#000001", "#000002", "#000003", "#000004"}, []Stop{
			{"#000001", 0}, {"#000002", 33}, {"#000003", 67}, {"#000004", 100},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStops(tt.colors)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeStops() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeStopsProperties(t *testing.T) {
	for n := 2; n <= 64; n++ {
		colors := make([]string, n)
		for i := range colors {
			colors[i] = "#123456"
		}
		stops := ComputeStops(colors)
		if len(stops) != n {
			t.Fatalf("n=%d: got %d stops", n, len(stops))
		}
		if stops[0].Percent != 0 || stops[n-1].Percent != 100 {
			t.Errorf("n=%d: endpoints = %d, %d", n, stops[0].Percent, stops[n-1].Percent)
		}
		for i := range stops {
			want := int(math.Floor(100*float64(i)/float64(n-1) + 0.5))
			if stops[i].Percent != want {
				t.Errorf("n=%d i=%d: percent = %d, want %d", n, i, stops[i].Percent, want)
			}
			if i > 0 && stops[i].Percent < stops[i-1].Percent {
				t.Errorf("n=%d: stops not monotonic at %d", n, i)
			}
		}
	}
}

func TestComputeStopsHalfRoundsUp(t *testing.T) {
	// 9 colors put stop 1 at exactly 12.5%.
	colors := make([]string, 9)
	for i := range colors {
		colors[i] = "#000000"
	}
	if got := ComputeStops(colors)[1].Percent; got != 13 {
		t.Errorf("12.5%% rounded to %d, want 13", got)
	}

	// 25 colors put stop 3 at exactly 12.5% with an inexact float step.
	colors = make([]string, 25)
	for i := range colors {
		colors[i] = "#000000"
	}
	if got := ComputeStops(colors)[3].Percent; got != 13 {
		t.Errorf("stop 3 of 25 = %d, want 13", got)
	}
}

func TestRenderEndToEnd(t *testing.T) {
	s := State{
		Colors: []string{"#ff0000", "#00ff00", "#0000ff"},
		Type:   Linear,
		Angle:  90,
	}
	got := Render(s)

	wantBg := "linear-gradient(90deg, #ff0000 0%, #00ff00 50%, #0000ff 100%)"
	if got.Background != wantBg {
		t.Errorf("Background = %q, want %q", got.Background, wantBg)
	}
	if got.Declaration != "background: "+wantBg+";" {
		t.Errorf("Declaration = %q", got.Declaration)
	}
	if !got.ShowAngleControl {
		t.Error("ShowAngleControl should be true for linear gradients")
	}
	if got.Animation != nil {
		t.Error("Animation should be nil when disabled")
	}
}

func TestRenderSingleColor(t *testing.T) {
	variants := []State{
		{Colors: []string{"#abcdef"}, Type: Linear, Angle: 45},
		{Colors: []string{"#abcdef"}, Type: Radial, Angle: 300},
		{Colors: []string{"#abcdef"}, Type: Linear, Animation: Animation{Enabled: true, Duration: 3}},
	}

	for _, s := range variants {
		got := Render(s)
		if got.Background != "#abcdef" {
			t.Errorf("Background = %q, want #abcdef", got.Background)
		}
		if got.Declaration != "background: #abcdef;" {
			t.Errorf("Declaration = %q", got.Declaration)
		}
		if got.Animation != nil {
			t.Errorf("single color must not produce animation style: %+v", got.Animation)
		}
		if got.ShowAngleControl != s.Type.IsLinear() {
			t.Errorf("ShowAngleControl = %v for %v", got.ShowAngleControl, s.Type)
		}
	}
}

func TestRenderRadial(t *testing.T) {
	base := State{Colors: []string{"#ff0000", "#0000ff"}, Type: Radial, Angle: 0}
	got := Render(base)

	want := "radial-gradient(circle, #ff0000 0%, #0000ff 100%)"
	if got.Background != want {
		t.Errorf("Background = %q, want %q", got.Background, want)
	}
	if got.ShowAngleControl {
		t.Error("ShowAngleControl should be false for radial gradients")
	}

	for _, angle := range []int{1, 45, 137, 360} {
		s := base
		s.Angle = angle
		if diff := cmp.Diff(got, Render(s)); diff != "" {
			t.Errorf("angle %d changed radial output:\n%s", angle, diff)
		}
		if strings.Contains(Render(s).Background, "deg") {
			t.Errorf("radial output contains an angle: %q", Render(s).Background)
		}
	}
}

func TestRenderUnknownTypeIsConsistent(t *testing.T) {
	s := State{Colors: []string{"#ff0000", "#0000ff"}, Type: Type(2), Angle: 45}
	got := Render(s)
	if !strings.HasPrefix(got.Background, "linear-gradient(45deg, ") {
		t.Errorf("Background = %q, want a linear gradient", got.Background)
	}
	if !got.ShowAngleControl {
		t.Error("ShowAngleControl should follow the rendered gradient kind")
	}
}

func TestRenderLinearIncludesAngle(t *testing.T) {
	s := State{Colors: []string{"#ff0000", "#0000ff"}, Type: Linear, Angle: 217}
	got := Render(s).Background
	if !strings.Contains(got, "linear-gradient(") || !strings.Contains(got, "217deg") {
		t.Errorf("Background = %q", got)
	}
}

func TestRenderAnimation(t *testing.T) {
	s := State{
		Colors:    []string{"#ff0000", "#0000ff"},
		Type:      Linear,
		Angle:     90,
		Animation: Animation{Enabled: true, Duration: 2.5},
	}
	got := Render(s)

	want := strings.Join([]string{
		"background: linear-gradient(90deg, #ff0000 0%, #0000ff 100%);",
		"animation: animateGradient 2.5s ease-in-out infinite alternate;",
		"background-size: 150% 150%;",
		"",
		"@keyframes animateGradient {",
		"  0% { background-position: 0% 50%; }",
		"  100% { background-position: 100% 50%; }",
		"}",
	}, "\n")
	if got.Declaration != want {
		t.Errorf("Declaration mismatch:\n%s", cmp.Diff(want, got.Declaration))
	}

	wantStyle := &AnimationStyle{
		BackgroundSize: "150% 150%",
		Shorthand:      "animateGradient 2.5s ease-in-out infinite alternate",
	}
	if diff := cmp.Diff(wantStyle, got.Animation); diff != "" {
		t.Errorf("Animation mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(got.Declaration, "@keyframes animateGradient"); n != 1 {
		t.Errorf("found %d keyframes blocks", n)
	}
	if n := strings.Count(got.Declaration, "animation:"); n != 1 {
		t.Errorf("found %d animation lines", n)
	}
}

func TestRenderAnimationDisabledIsStable(t *testing.T) {
	s := State{
		Colors:    []string{"#ff0000", "#00ff00"},
		Type:      Radial,
		Animation: Animation{Enabled: false, Duration: 9},
	}
	a, b := Render(s), Render(s)
	if a.Declaration != b.Declaration {
		t.Errorf("repeated renders differ: %q vs %q", a.Declaration, b.Declaration)
	}
	for _, sub := range []string{"animation:", "@keyframes"} {
		if strings.Contains(a.Declaration, sub) {
			t.Errorf("disabled animation produced %q", sub)
		}
	}
}

func TestRenderDurationFallback(t *testing.T) {
	base := State{
		Colors:    []string{"#ff0000", "#0000ff"},
		Animation: Animation{Enabled: true, Duration: 5},
	}
	want := Render(base)

	for _, d := range []float64{0, -3, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := base
		s.Animation.Duration = d
		if diff := cmp.Diff(want, Render(s)); diff != "" {
			t.Errorf("duration %v:\n%s", d, diff)
		}
	}
}

func TestRenderDoesNotMutateState(t *testing.T) {
	s := State{Colors: []string{"#ff0000", "#0000ff"}, Type: Linear, Angle: 10}
	before := s.Clone()
	Render(s)
	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("state mutated:\n%s", diff)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{2.5, "2.5"},
		{0.25, "0.25"},
		{10, "10"},
		{0, "5"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"linear", Linear, false},
		{"Radial", Radial, false},
		{" radial ", Radial, false},
		{"conic", Linear, true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Linear.String() != "linear" || Radial.String() != "radial" {
		t.Error("unexpected Type.String output")
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if len(s.Colors) < 2 || s.Type != Linear || s.Animation.Enabled || s.Animation.Duration != 5 {
		t.Errorf("unexpected default state: %+v", s)
	}
}
