package preview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// Adjustment steps for keyboard controls.
const (
	hueStep      = 15.0
	angleStep    = 5
	durationStep = 0.5
	minDuration  = 0.5
)

// Key repeat timing in ticks.
const (
	repeatDelay    = 30
	repeatInterval = 4
)

// InputSource abstracts ebiten's input state so the mapping can be tested.
type InputSource interface {
	KeyPressDuration(key ebiten.Key) int
	CursorPosition() (x, y int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	IsMouseButtonJustPressed(button ebiten.MouseButton) bool
}

// ebitenInput reads live input from ebiten.
type ebitenInput struct{}

func (ebitenInput) KeyPressDuration(key ebiten.Key) int {
	return inpututil.KeyPressDuration(key)
}

func (ebitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (ebitenInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(button)
}

func (ebitenInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(button)
}

// binding maps a key to the event it raises. event may return nil when
// the key does nothing in the current view.
type binding struct {
	key    ebiten.Key
	repeat bool
	event  func(v ui.View) ui.Event
}

var bindings = []binding{
	{key: ebiten.KeyT, event: func(ui.View) ui.Event { return ui.ToggleType{} }},
	{key: ebiten.KeyN, event: func(v ui.View) ui.Event {
		return ui.SetAnimation{Enabled: !v.State.Animation.Enabled}
	}},
	{key: ebiten.KeyEqual, event: func(ui.View) ui.Event { return ui.AddColor{} }},
	{key: ebiten.KeyMinus, event: func(ui.View) ui.Event { return ui.RemoveColor{} }},
	{key: ebiten.KeyArrowLeft, repeat: true, event: func(ui.View) ui.Event { return ui.SelectColor{Delta: -1} }},
	{key: ebiten.KeyArrowRight, repeat: true, event: func(ui.View) ui.Event { return ui.SelectColor{Delta: 1} }},
	{key: ebiten.KeyBracketLeft, repeat: true, event: func(v ui.View) ui.Event {
		return ui.ShiftHue{Index: v.Selected, Degrees: -hueStep}
	}},
	{key: ebiten.KeyBracketRight, repeat: true, event: func(v ui.View) ui.Event {
		return ui.ShiftHue{Index: v.Selected, Degrees: hueStep}
	}},
	{key: ebiten.KeyComma, repeat: true, event: func(v ui.View) ui.Event { return angleEvent(v, -angleStep) }},
	{key: ebiten.KeyPeriod, repeat: true, event: func(v ui.View) ui.Event { return angleEvent(v, angleStep) }},
	{key: ebiten.KeyArrowUp, repeat: true, event: func(v ui.View) ui.Event { return durationEvent(v, durationStep) }},
	{key: ebiten.KeyArrowDown, repeat: true, event: func(v ui.View) ui.Event { return durationEvent(v, -durationStep) }},
	{key: ebiten.KeyC, event: func(ui.View) ui.Event { return ui.Copy{} }},
	{key: ebiten.KeyX, event: func(ui.View) ui.Event { return ui.Reset{} }},
	{key: ebiten.KeyTab, event: func(ui.View) ui.Event { return ui.TogglePanel{} }},
}

// helpText lists the key bindings shown at the bottom of the panel.
const helpText = "T type  N animate  =/- colors  Left/Right select  [/] hue  ,/. angle  Up/Down duration  C copy  X reset  Tab hide"

// minimizedHelp is shown when the panel is collapsed.
const minimizedHelp = "Tab: show controls  C: copy CSS"

func angleEvent(v ui.View, delta int) ui.Event {
	if !v.Result.ShowAngleControl {
		return nil
	}
	return ui.SetAngle{Degrees: gradient.ClampAngle(v.State.Angle + delta)}
}

func durationEvent(v ui.View, delta float64) ui.Event {
	if !v.State.Animation.Enabled {
		return nil
	}
	d := gradient.NormalizeDuration(v.State.Animation.Duration) + delta
	if d < minDuration {
		d = minDuration
	}
	return ui.SetDuration{Seconds: d}
}

// Input turns keyboard and mouse state into session events.
type Input struct {
	dragging   bool
	lastOffset float64
}

// Poll returns the events raised this tick, in the order they should be
// dispatched.
func (in *Input) Poll(src InputSource, v ui.View, l Layout) []ui.Event {
	var events []ui.Event

	for _, b := range bindings {
		if !pressed(src.KeyPressDuration(b.key), b.repeat) {
			continue
		}
		// Only the hint line is visible while minimized.
		if v.Minimized && b.key != ebiten.KeyTab && b.key != ebiten.KeyC {
			continue
		}
		if ev := b.event(v); ev != nil {
			events = append(events, ev)
		}
	}

	if v.Minimized {
		in.dragging = false
		return events
	}
	return append(events, in.pollMouse(src, v, l)...)
}

func (in *Input) pollMouse(src InputSource, v ui.View, l Layout) []ui.Event {
	cx, cy := src.CursorPosition()
	x, y := float64(cx), float64(cy)

	if !src.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		in.dragging = false
		return nil
	}

	if src.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if v.Result.ShowAngleControl && l.SliderHit.Contains(x, y) {
			in.dragging = true
			in.lastOffset = x - l.Track.X
			return []ui.Event{ui.DragAngle{Offset: in.lastOffset}}
		}
		if i, ok := l.SwatchAt(x, y); ok && i != v.Selected {
			return []ui.Event{ui.SelectColor{Delta: i - v.Selected}}
		}
		return nil
	}

	if !in.dragging || !v.Result.ShowAngleControl {
		return nil
	}
	offset := x - l.Track.X
	if offset == in.lastOffset {
		return nil
	}
	in.lastOffset = offset
	return []ui.Event{ui.DragAngle{Offset: offset}}
}

// pressed reports whether a key held for d ticks fires this tick.
func pressed(d int, repeat bool) bool {
	if d == 1 {
		return true
	}
	return repeat && d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}
