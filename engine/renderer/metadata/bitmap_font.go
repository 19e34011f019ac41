package metadata

import "image"

type FontGlyph struct {
	Codepoint int32
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 int32
	Codepoint1 int32
	Amount     int16
}

type BitmapFontPage struct {
	ID    int8
	File  string
	Image image.Image
}

// BitmapFont is an AngelCode font: glyph rectangles on one or more page images.
type BitmapFont struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[int32]*FontGlyph
	Kernings   map[[2]int32]int16
	Pages      []*BitmapFontPage
}

func (f *BitmapFont) Kerning(first, second int32) int16 {
	return f.Kernings[[2]int32{first, second}]
}
