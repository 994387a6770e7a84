package preview

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-gradient/internal/gradient"
	"github.com/opd-ai/go-gradient/internal/render"
	"github.com/opd-ai/go-gradient/internal/ui"
)

// maxRasterSide caps the rasterized size of the longer window side.
// Gradients are smooth, so the image is scaled up with linear filtering.
const maxRasterSide = 480

// fallbackColor fills the window when the gradient cannot be rasterized.
var fallbackColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// GradientBackground draws the current gradient behind the panel.
// The raster is rebuilt only when the CSS output or window size changes;
// animation pans across a cached canvas.
type GradientBackground struct {
	key      string
	canvas   *ebiten.Image
	vw, vh   int
	cw, ch   int
	scale    float64
	animated bool
	duration float64
	start    time.Time
	now      func() time.Time
}

// NewGradientBackground creates an empty background. Sync must be called
// before the first Draw.
func NewGradientBackground() *GradientBackground {
	return &GradientBackground{now: time.Now}
}

// Sync rebuilds the canvas if the view or window size changed.
func (b *GradientBackground) Sync(v ui.View, w, h int) error {
	key := backgroundKey(v.Result, w, h)
	if key == b.key {
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: window %dx%d", gradient.ErrInvalidGeometry, w, h)
	}

	scale := rasterScale(w, h)
	vw := max(1, int(math.Round(float64(w)*scale)))
	vh := max(1, int(math.Round(float64(h)*scale)))

	img, err := render.RasterizeCanvas(v.State, vw, vh)
	if err != nil {
		return fmt.Errorf("rasterize background: %w", err)
	}

	if b.canvas != nil {
		b.canvas.Deallocate()
	}
	b.canvas = ebiten.NewImageFromImage(img)
	b.key = key
	b.vw, b.vh = vw, vh
	b.cw, b.ch = img.Bounds().Dx(), img.Bounds().Dy()
	b.scale = scale

	animated := v.State.Animation.Enabled && len(v.State.Colors) > 1
	if animated && !b.animated {
		b.start = b.now()
	}
	b.animated = animated
	b.duration = v.State.Animation.Duration
	return nil
}

// Draw paints the background, panning it when the gradient is animated.
func (b *GradientBackground) Draw(screen *ebiten.Image) {
	if b.canvas == nil {
		screen.Fill(fallbackColor)
		return
	}

	var ox, oy float64
	if b.animated {
		phase := render.AnimationPhase(b.now().Sub(b.start), b.duration)
		ox, oy = render.PanOffset(b.vw, b.vh, b.cw, b.ch, phase)
	}

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-ox, -oy)
	op.GeoM.Scale(1/b.scale, 1/b.scale)
	screen.DrawImage(b.canvas, op)
}

// Animated reports whether the background pans over time.
func (b *GradientBackground) Animated() bool {
	return b.animated
}

// backgroundKey identifies a raster. The declaration covers every field
// that affects pixels.
func backgroundKey(r gradient.Result, w, h int) string {
	return fmt.Sprintf("%dx%d|%s", w, h, r.Declaration)
}

// rasterScale returns the factor applied to the window size before
// rasterizing.
func rasterScale(w, h int) float64 {
	side := max(w, h)
	if side <= maxRasterSide {
		return 1
	}
	return float64(maxRasterSide) / float64(side)
}
