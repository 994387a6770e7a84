//go:build !noebiten

package preview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// fakeInput is a scripted InputSource.
type fakeInput struct {
	keys        map[ebiten.Key]int
	x, y        int
	pressed     bool
	justPressed bool
}

func (f *fakeInput) KeyPressDuration(key ebiten.Key) int { return f.keys[key] }
func (f *fakeInput) CursorPosition() (int, int)          { return f.x, f.y }

func (f *fakeInput) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return b == ebiten.MouseButtonLeft && f.pressed
}

func (f *fakeInput) IsMouseButtonJustPressed(b ebiten.MouseButton) bool {
	return b == ebiten.MouseButtonLeft && f.justPressed
}

func keys(pressed ...ebiten.Key) *fakeInput {
	f := &fakeInput{keys: map[ebiten.Key]int{}}
	for _, k := range pressed {
		f.keys[k] = 1
	}
	return f
}

func TestInputKeyBindings(t *testing.T) {
	animated := gradient.DefaultState()
	animated.Animation = gradient.Animation{Enabled: true, Duration: 2}

	tests := []struct {
		name  string
		state gradient.State
		key   ebiten.Key
		want  []ui.Event
	}{
		{"toggle type", gradient.DefaultState(), ebiten.KeyT, []ui.Event{ui.ToggleType{}}},
		{"enable animation", gradient.DefaultState(), ebiten.KeyN, []ui.Event{ui.SetAnimation{Enabled: true}}},
		{"disable animation", animated, ebiten.KeyN, []ui.Event{ui.SetAnimation{Enabled: false}}},
		{"add color", gradient.DefaultState(), ebiten.KeyEqual, []ui.Event{ui.AddColor{}}},
		{"remove color", gradient.DefaultState(), ebiten.KeyMinus, []ui.Event{ui.RemoveColor{}}},
		{"select next", gradient.DefaultState(), ebiten.KeyArrowRight, []ui.Event{ui.SelectColor{Delta: 1}}},
		{"hue down", gradient.DefaultState(), ebiten.KeyBracketLeft, []ui.Event{ui.ShiftHue{Index: 0, Degrees: -15}}},
		{"angle up", gradient.DefaultState(), ebiten.KeyPeriod, []ui.Event{ui.SetAngle{Degrees: 95}}},
		{"duration up", animated, ebiten.KeyArrowUp, []ui.Event{ui.SetDuration{Seconds: 2.5}}},
		{"duration floor", gradient.State{Colors: []string{"#000000"}, Animation: gradient.Animation{Enabled: true, Duration: 0.5}},
			ebiten.KeyArrowDown, []ui.Event{ui.SetDuration{Seconds: 0.5}}},
		{"duration ignored when static", gradient.DefaultState(), ebiten.KeyArrowUp, nil},
		{"copy", gradient.DefaultState(), ebiten.KeyC, []ui.Event{ui.Copy{}}},
		{"reset", gradient.DefaultState(), ebiten.KeyX, []ui.Event{ui.Reset{}}},
		{"panel", gradient.DefaultState(), ebiten.KeyTab, []ui.Event{ui.TogglePanel{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viewOf(t, tt.state)
			var in Input
			got := in.Poll(keys(tt.key), v, ComputeLayout(640, 480, v, 16, 8))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputAngleKeysNeedSlider(t *testing.T) {
	v := viewOf(t, gradient.DefaultState(), ui.SetType{Type: gradient.Radial})
	var in Input
	if got := in.Poll(keys(ebiten.KeyComma), v, Layout{}); len(got) != 0 {
		t.Errorf("angle keys should do nothing for radial gradients, got %v", got)
	}

	v = viewOf(t, gradient.DefaultState(), ui.SetAngle{Degrees: 0})
	got := in.Poll(keys(ebiten.KeyComma), v, Layout{})
	if diff := cmp.Diff([]ui.Event{ui.SetAngle{Degrees: 0}}, got); diff != "" {
		t.Errorf("angle should clamp at 0 (-want +got):\n%s", diff)
	}
}

func TestInputMinimizedOnlyPanelAndCopy(t *testing.T) {
	v := viewOf(t, gradient.DefaultState(), ui.TogglePanel{})
	var in Input
	got := in.Poll(keys(ebiten.KeyT, ebiten.KeyTab, ebiten.KeyC, ebiten.KeyEqual), v, Layout{})
	want := []ui.Event{ui.Copy{}, ui.TogglePanel{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPressedRepeat(t *testing.T) {
	tests := []struct {
		d      int
		repeat bool
		want   bool
	}{
		{0, true, false},
		{1, false, true},
		{2, true, false},
		{repeatDelay, false, false},
		{repeatDelay, true, true},
		{repeatDelay + 1, true, false},
		{repeatDelay + repeatInterval, true, true},
	}
	for _, tt := range tests {
		if got := pressed(tt.d, tt.repeat); got != tt.want {
			t.Errorf("pressed(%d, %v) = %v, want %v", tt.d, tt.repeat, got, tt.want)
		}
	}
}

func TestInputSliderDrag(t *testing.T) {
	v := viewOf(t, gradient.DefaultState())
	l := ComputeLayout(640, 480, v, 16, 8)
	y := int(l.Track.Y)
	x0 := int(l.Track.X)

	var in Input
	src := keys()

	// Press on the track 180px in.
	src.x, src.y, src.pressed, src.justPressed = x0+180, y, true, true
	got := in.Poll(src, v, l)
	if diff := cmp.Diff([]ui.Event{ui.DragAngle{Offset: 180}}, got); diff != "" {
		t.Fatalf("press (-want +got):\n%s", diff)
	}

	// Holding still raises nothing.
	src.justPressed = false
	if got := in.Poll(src, v, l); len(got) != 0 {
		t.Errorf("unchanged drag produced %v", got)
	}

	// Dragging outside the track keeps following the cursor.
	src.x, src.y = x0+500, y+100
	got = in.Poll(src, v, l)
	if diff := cmp.Diff([]ui.Event{ui.DragAngle{Offset: 500}}, got); diff != "" {
		t.Errorf("drag (-want +got):\n%s", diff)
	}

	// Release ends the drag.
	src.pressed = false
	in.Poll(src, v, l)
	src.pressed = true
	src.x = x0 + 10
	if got := in.Poll(src, v, l); len(got) != 0 {
		t.Errorf("drag continued after release: %v", got)
	}
}

func TestInputSwatchClick(t *testing.T) {
	v := viewOf(t, gradient.State{Colors: []string{"#000000", "#111111", "#222222"}}, ui.SelectColor{Delta: 2})
	l := ComputeLayout(640, 480, v, 16, 8)
	first := l.Swatches[0]

	var in Input
	src := keys()
	src.x, src.y = int(first.X)+2, int(first.Y)+2
	src.pressed, src.justPressed = true, true

	got := in.Poll(src, v, l)
	if diff := cmp.Diff([]ui.Event{ui.SelectColor{Delta: -2}}, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
