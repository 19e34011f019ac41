package ui

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

/**
 * @brief Measures and draws single line labels, either with the built-in
 * 7x13 face or with a bitmap font. Sizes are in window units.
 */
type LabelFont interface {
	Measure(text string) (width, height int)
	// Draw renders text at 1x with its top-left corner at origin.
	Draw(dst draw.Image, origin image.Point, text string, c color.Color)
}

type basicLabelFont struct {
	face font.Face
}

// NewBasicLabelFont uses basicfont.Face7x13.
func NewBasicLabelFont() LabelFont {
	return &basicLabelFont{face: basicfont.Face7x13}
}

func (b *basicLabelFont) Measure(text string) (int, int) {
	m := b.face.Metrics()
	return font.MeasureString(b.face, text).Ceil(), (m.Ascent + m.Descent).Ceil()
}

func (b *basicLabelFont) Draw(dst draw.Image, origin image.Point, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: b.face,
		Dot:  fixed.P(origin.X, origin.Y+b.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

type bitmapLabelFont struct {
	font *metadata.BitmapFont
}

// NewBitmapLabelFont draws with the pages of an AngelCode font. Page
// alpha is used as coverage.
func NewBitmapLabelFont(bf *metadata.BitmapFont) LabelFont {
	return &bitmapLabelFont{font: bf}
}

func (b *bitmapLabelFont) Measure(text string) (int, int) {
	width := 0
	var prev int32 = -1
	for _, r := range text {
		g, ok := b.font.Glyphs[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			width += int(b.font.Kerning(prev, r))
		}
		width += int(g.XAdvance)
		prev = r
	}
	return width, int(b.font.LineHeight)
}

func (b *bitmapLabelFont) Draw(dst draw.Image, origin image.Point, text string, c color.Color) {
	src := image.NewUniform(c)
	x := origin.X
	var prev int32 = -1
	for _, r := range text {
		g, ok := b.font.Glyphs[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			x += int(b.font.Kerning(prev, r))
		}
		prev = r
		if int(g.PageID) >= len(b.font.Pages) || b.font.Pages[g.PageID].Image == nil {
			x += int(g.XAdvance)
			continue
		}
		page := b.font.Pages[g.PageID].Image
		sr := image.Rect(int(g.X), int(g.Y), int(g.X)+int(g.Width), int(g.Y)+int(g.Height))
		dp := image.Pt(x+int(g.XOffset), origin.Y+int(g.YOffset))
		draw.DrawMask(dst, sr.Sub(sr.Min).Add(dp), src, image.Point{}, page, sr.Min, draw.Over)
		x += int(g.XAdvance)
	}
}
