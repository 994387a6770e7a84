//go:build !noebiten

package preview

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// mockTextRenderer implements TextRendererInterface for testing
type mockTextRenderer struct {
	mu    sync.Mutex
	drawn []string
}

func (m *mockTextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawn = append(m.drawn, textStr)
}

func (m *mockTextRenderer) MeasureText(textStr string) (width, height float64) {
	return float64(len(textStr)) * 8, 16
}

func (m *mockTextRenderer) LineHeight() float64 { return 16 }
func (m *mockTextRenderer) CharWidth() float64  { return 8 }

func (m *mockTextRenderer) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.drawn...)
}

type nopClipboard struct{ text string }

func (c *nopClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestGame(t *testing.T) (*Game, *ui.Session, *mockTextRenderer) {
	t.Helper()
	session := ui.NewSession(gradient.DefaultState(), ui.WithClipboard(&nopClipboard{}))
	tr := &mockTextRenderer{}
	g := NewGameWithRenderer(session, Config{Width: 320, Height: 240, Title: "test"}, tr)
	g.SetErrorHandler(func(err error) { t.Errorf("unexpected error: %v", err) })
	return g, session, tr
}

func TestGameUpdateDispatchesInput(t *testing.T) {
	g, session, _ := newTestGame(t)
	g.SetInputSource(keys(ebiten.KeyT))

	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := session.State().Type; got != gradient.Radial {
		t.Errorf("Type = %v, want radial", got)
	}
	if g.background.canvas == nil {
		t.Error("Update should rasterize the background")
	}
}

func TestGameUpdateReportsErrors(t *testing.T) {
	session := ui.NewSession(gradient.DefaultState(), ui.WithClipboard(&nopClipboard{}))
	g := NewGameWithRenderer(session, Config{Width: 320, Height: 240}, &mockTextRenderer{})

	var got []error
	g.SetErrorHandler(func(err error) { got = append(got, err) })
	g.SetInputSource(keys())

	// An unparseable color cannot be rasterized.
	if err := session.Dispatch(ui.SetColor{Index: 0, Value: "not-a-color"}); err != nil {
		t.Fatal(err)
	}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d errors, want 1", len(got))
	}
}

func TestGameContextCancellation(t *testing.T) {
	g, _, _ := newTestGame(t)
	g.SetInputSource(keys())

	ctx, cancel := context.WithCancel(context.Background())
	g.SetContext(ctx)
	if err := g.Update(); err != nil {
		t.Fatalf("Update before cancel: %v", err)
	}

	cancel()
	if err := g.Update(); !errors.Is(err, ErrGameTerminated) {
		t.Errorf("Update after cancel = %v, want ErrGameTerminated", err)
	}
}

func TestGameLayoutFollowsWindow(t *testing.T) {
	g, _, _ := newTestGame(t)

	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("Layout = %dx%d, want 800x600", w, h)
	}
	if w, h := g.Layout(0, 0); w != 800 || h != 600 {
		t.Errorf("zero size should keep the last layout, got %dx%d", w, h)
	}
}

func TestGameDrawPanel(t *testing.T) {
	g, session, tr := newTestGame(t)
	g.SetInputSource(keys())
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}

	g.Draw(ebiten.NewImage(320, 240))
	texts := strings.Join(tr.texts(), "\n")
	if !strings.Contains(texts, "linear  90deg  2 colors  static") {
		t.Errorf("status line missing from %q", texts)
	}
	if !strings.Contains(texts, helpText) {
		t.Error("help text not drawn")
	}

	tr.drawn = nil
	if err := session.Dispatch(ui.TogglePanel{}); err != nil {
		t.Fatal(err)
	}
	g.Draw(ebiten.NewImage(320, 240))
	if got := tr.texts(); len(got) != 1 || got[0] != minimizedHelp {
		t.Errorf("minimized panel drew %q", got)
	}
}

func TestGameDrawToast(t *testing.T) {
	g, session, tr := newTestGame(t)
	g.SetInputSource(keys())
	if err := session.Dispatch(ui.Copy{}); err != nil {
		t.Fatal(err)
	}
	if err := g.Update(); err != nil {
		t.Fatal(err)
	}

	g.Draw(ebiten.NewImage(320, 240))
	found := false
	for _, s := range tr.texts() {
		if s == ui.ToastCopied {
			found = true
		}
	}
	if !found {
		t.Error("toast not drawn after copy")
	}
}

func TestSelectionMarker(t *testing.T) {
	swatch := Rect{X: 10, Y: 20, W: 30, H: 24}
	tests := []struct {
		name  string
		color color.RGBA
		want  color.RGBA
	}{
		{"white swatch", color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBA{A: 255}},
		{"yellow swatch", color.RGBA{R: 255, G: 255, A: 255}, color.RGBA{A: 255}},
		{"black swatch", color.RGBA{A: 255}, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"navy swatch", color.RGBA{B: 128, A: 255}, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot, got := selectionMarker(swatch, tt.color)
			if got != tt.want {
				t.Errorf("marker color = %v, want %v", got, tt.want)
			}
			if dot.W != 8 || dot.H != 8 {
				t.Errorf("marker size = %vx%v, want 8x8", dot.W, dot.H)
			}
			if dot.X+dot.W/2 != swatch.X+swatch.W/2 || dot.Y+dot.H/2 != swatch.Y+swatch.H/2 {
				t.Errorf("marker %+v not centered in %+v", dot, swatch)
			}
		})
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name   string
		events []ui.Event
		want   string
	}{
		{"default", nil, "linear  90deg  2 colors  static"},
		{"radial hides angle", []ui.Event{ui.ToggleType{}}, "radial  2 colors  static"},
		{"animated", []ui.Event{ui.SetAnimation{Enabled: true}, ui.SetDuration{Seconds: 2.5}, ui.AddColor{}},
			"linear  90deg  3 colors  animated 2.5s"},
		{"bad duration falls back", []ui.Event{ui.SetAnimation{Enabled: true}, ui.SetDuration{Seconds: -1}},
			"linear  90deg  2 colors  animated 5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viewOf(t, gradient.DefaultState(), tt.events...)
			if got := statusLine(v); got != tt.want {
				t.Errorf("statusLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGradientBackgroundSync(t *testing.T) {
	b := NewGradientBackground()
	clock := time.Unix(0, 0)
	b.now = func() time.Time { return clock }

	v := viewOf(t, gradient.DefaultState())
	if err := b.Sync(v, 100, 50); err != nil {
		t.Fatal(err)
	}
	first := b.canvas
	if b.Animated() {
		t.Error("static gradient should not animate")
	}

	// Same view and size keeps the cached canvas.
	if err := b.Sync(v, 100, 50); err != nil {
		t.Fatal(err)
	}
	if b.canvas != first {
		t.Error("canvas rebuilt without changes")
	}

	animated := viewOf(t, gradient.DefaultState(), ui.SetAnimation{Enabled: true})
	if err := b.Sync(animated, 100, 50); err != nil {
		t.Fatal(err)
	}
	if !b.Animated() || b.cw != 150 || b.ch != 75 {
		t.Errorf("animated canvas = %dx%d animated=%v", b.cw, b.ch, b.Animated())
	}
	if !b.start.Equal(clock) {
		t.Error("animation start not recorded")
	}

	if err := b.Sync(v, 0, 50); !errors.Is(err, gradient.ErrInvalidGeometry) {
		t.Errorf("zero width err = %v", err)
	}
}

func TestRasterScale(t *testing.T) {
	tests := []struct {
		w, h int
		want float64
	}{
		{320, 240, 1},
		{480, 100, 1},
		{960, 540, 0.5},
		{100, 1920, 0.25},
	}
	for _, tt := range tests {
		if got := rasterScale(tt.w, tt.h); got != tt.want {
			t.Errorf("rasterScale(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestBackgroundKey(t *testing.T) {
	a := viewOf(t, gradient.DefaultState())
	b := viewOf(t, gradient.DefaultState(), ui.SetAngle{Degrees: 45})
	if backgroundKey(a.Result, 10, 10) == backgroundKey(b.Result, 10, 10) {
		t.Error("different gradients share a key")
	}
	if backgroundKey(a.Result, 10, 10) == backgroundKey(a.Result, 10, 11) {
		t.Error("different sizes share a key")
	}
}
