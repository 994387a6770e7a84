package preview

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomonobold"
)

// defaultFontSize is the panel font size in points.
const defaultFontSize = 13.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.3

// TextRenderer draws panel text with the embedded Go Mono Bold face.
type TextRenderer struct {
	fontSource *text.GoTextFaceSource
	fontSize   float64
}

// NewTextRenderer creates a TextRenderer with the default size.
func NewTextRenderer() *TextRenderer {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(gomonobold.TTF))
	if err != nil {
		// The font is compiled in; failure means a broken build.
		panic("failed to load embedded font: " + err.Error())
	}

	return &TextRenderer{
		fontSource: fontSource,
		fontSize:   defaultFontSize,
	}
}

func (tr *TextRenderer) face() *text.GoTextFace {
	return &text.GoTextFace{
		Source: tr.fontSource,
		Size:   tr.fontSize,
	}
}

// DrawText renders textStr with its top-left corner at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = tr.fontSize * lineSpacing

	text.Draw(screen, textStr, tr.face(), op)
}

// MeasureText returns the width and height of the given text string.
func (tr *TextRenderer) MeasureText(textStr string) (width, height float64) {
	return text.Measure(textStr, tr.face(), tr.fontSize*lineSpacing)
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	return tr.fontSize * lineSpacing
}

// CharWidth returns the advance of one glyph. The face is monospaced.
func (tr *TextRenderer) CharWidth() float64 {
	return text.Advance("M", tr.face())
}
