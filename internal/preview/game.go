// Package preview implements the interactive gradient preview window with
// Ebiten v2. The window shows the live gradient as its background and a
// control panel with the generated CSS, an angle slider and color swatches.
// All state changes go through a ui.Session.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/render"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "preview error: %v\n", err)
}

// TextRendererInterface defines the interface for text rendering.
// This allows for mocking in tests.
type TextRendererInterface interface {
	DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	MeasureText(textStr string) (width, height float64)
	LineHeight() float64
	CharWidth() float64
}

// Config holds window settings for the preview.
type Config struct {
	Width  int
	Height int
	Title  string
}

// Panel colors.
var (
	panelColor     = color.RGBA{A: 190}
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	dimTextColor   = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	trackColor     = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	selectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	toastColor     = color.RGBA{R: 30, G: 30, B: 30, A: 230}
)

// Game implements ebiten.Game over a ui.Session.
type Game struct {
	config       Config
	session      *ui.Session
	textRenderer TextRendererInterface
	input        Input
	source       InputSource
	background   *GradientBackground
	errorHandler ErrorHandler
	dispatch     func(ui.Event) error
	width        int
	height       int
	mu           sync.RWMutex
	running      bool
	ctx          context.Context
}

// NewGame creates a preview of session.
func NewGame(session *ui.Session, config Config) *Game {
	return NewGameWithRenderer(session, config, NewTextRenderer())
}

// NewGameWithRenderer creates a Game with a custom text renderer.
// This is useful for testing.
func NewGameWithRenderer(session *ui.Session, config Config, renderer TextRendererInterface) *Game {
	return &Game{
		config:       config,
		session:      session,
		textRenderer: renderer,
		source:       ebitenInput{},
		background:   NewGradientBackground(),
		errorHandler: DefaultErrorHandler,
		dispatch:     session.Dispatch,
		width:        config.Width,
		height:       config.Height,
	}
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetDispatcher routes input events through fn instead of dispatching
// them on the session directly. fn must eventually call Session.Dispatch.
func (g *Game) SetDispatcher(fn func(ui.Event) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if fn == nil {
		fn = g.session.Dispatch
	}
	g.dispatch = fn
}

// SetInputSource replaces the live ebiten input, mainly for tests.
func (g *Game) SetInputSource(src InputSource) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.source = src
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			g.mu.Unlock()
			return ErrGameTerminated
		default:
		}
	}

	view := g.session.View()
	layout := g.layoutFor(view)
	events := g.input.Poll(g.source, view, layout)
	handler := g.errorHandler
	dispatch := g.dispatch
	w, h := g.width, g.height
	g.mu.Unlock()

	// Dispatch runs change handlers, which must not see the game lock held.
	for _, ev := range events {
		if err := dispatch(ev); err != nil && handler != nil {
			handler(err)
		}
	}

	g.mu.Lock()
	err := g.background.Sync(g.session.View(), w, h)
	g.mu.Unlock()
	if err != nil && handler != nil {
		handler(err)
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	g.background.Draw(screen)

	view := g.session.View()
	layout := g.layoutFor(view)
	if view.Minimized {
		g.drawRect(screen, layout.Panel, panelColor)
		g.textRenderer.DrawText(screen, minimizedHelp, layout.HelpX, layout.HelpY, dimTextColor)
	} else {
		g.drawPanel(screen, view, layout)
	}

	if view.Toast != "" {
		g.drawToast(screen, view.Toast)
	}
}

func (g *Game) drawPanel(screen *ebiten.Image, v ui.View, l Layout) {
	g.drawRect(screen, l.Panel, panelColor)
	g.textRenderer.DrawText(screen, statusLine(v), l.StatusX, l.StatusY, textColor)

	if v.Result.ShowAngleControl {
		g.drawRect(screen, l.Track, trackColor)
		g.drawRect(screen, l.Handle(v), textColor)
	}

	for i, r := range l.Swatches {
		c, err := render.ParseColor(v.State.Colors[i])
		if err != nil {
			c = fallbackColor
		}
		g.drawRect(screen, r, c)
		if i == v.Selected {
			vector.StrokeRect(screen, float32(r.X-2), float32(r.Y-2), float32(r.W+4), float32(r.H+4), 2, selectionColor, false)
			dot, dc := selectionMarker(r, c)
			g.drawRect(screen, dot, dc)
		}
	}

	for i, line := range l.Code {
		g.textRenderer.DrawText(screen, line, l.CodeX, l.CodeY+float64(i)*l.LineHeight, textColor)
	}
	g.textRenderer.DrawText(screen, helpText, l.HelpX, l.HelpY, dimTextColor)
}

func (g *Game) drawToast(screen *ebiten.Image, msg string) {
	tw, th := g.textRenderer.MeasureText(msg)
	r := Rect{
		X: (float64(g.width)-tw)/2 - padding,
		Y: padding,
		W: tw + 2*padding,
		H: th + padding,
	}
	g.drawRect(screen, r, toastColor)
	g.textRenderer.DrawText(screen, msg, r.X+padding, r.Y+padding/2, textColor)
}

func (g *Game) drawRect(screen *ebiten.Image, r Rect, c color.RGBA) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

// selectionMarker returns a dot centered in the swatch r, colored to stay
// visible against the swatch color c.
func selectionMarker(r Rect, c color.RGBA) (Rect, color.RGBA) {
	size := math.Min(r.W, r.H) / 3
	return Rect{
		X: r.X + (r.W-size)/2,
		Y: r.Y + (r.H-size)/2,
		W: size,
		H: size,
	}, render.ContrastText(c)
}

func (g *Game) layoutFor(v ui.View) Layout {
	return ComputeLayout(g.width, g.height, v, g.textRenderer.LineHeight(), g.textRenderer.CharWidth())
}

// statusLine summarizes the gradient settings above the controls.
func statusLine(v ui.View) string {
	var b strings.Builder
	b.WriteString(v.State.Type.String())
	if v.Result.ShowAngleControl {
		fmt.Fprintf(&b, "  %ddeg", v.State.Angle)
	}
	fmt.Fprintf(&b, "  %d colors", len(v.State.Colors))
	if v.State.Animation.Enabled {
		fmt.Fprintf(&b, "  animated %ss", gradient.FormatDuration(v.State.Animation.Duration))
	} else {
		b.WriteString("  static")
	}
	return b.String()
}

// Layout implements ebiten.Game.Layout. The window is resizable and the
// logical size follows it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
