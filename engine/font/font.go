package font

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/quadn/engine/math"
)

type PathOp int

const (
	PathOpMoveTo PathOp = iota
	PathOpLineTo
	PathOpQuadTo
	PathOpCubeTo
)

/**
 * @brief One outline command in font units, y pointing up.
 * MoveTo and LineTo use Points[0]; QuadTo is (control, end);
 * CubeTo is (control1, control2, end).
 */
type PathCommand struct {
	Op     PathOp
	Points [3]math.Vec2
}

func (c PathCommand) End() math.Vec2 {
	switch c.Op {
	case PathOpQuadTo:
		return c.Points[1]
	case PathOpCubeTo:
		return c.Points[2]
	default:
		return c.Points[0]
	}
}

type Glyph struct {
	Rune rune
	// Horizontal advance in font units.
	Advance  float32
	Commands []PathCommand
}

type glyphLoader func(r rune) (*Glyph, error)

/**
 * @brief An outline font. Glyphs are either parsed up front (typeface
 * JSON) or loaded from the font file the first time they are asked for.
 */
type Font struct {
	Family string
	// Font units per em. Glyph outlines are scaled by size / Resolution.
	Resolution float32
	Ascender   float32
	Descender  float32
	// Distance between baselines in font units.
	LineHeight float32

	mutex  sync.Mutex
	glyphs map[rune]*Glyph
	load   glyphLoader
}

// Glyph returns the outline of r. Missing glyphs return an error wrapping ErrGlyphNotFound.
func (f *Font) Glyph(r rune) (*Glyph, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if g, ok := f.glyphs[r]; ok {
		return g, nil
	}
	if f.load == nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrGlyphNotFound, r, f.Family)
	}
	g, err := f.load(r)
	if err != nil {
		return nil, err
	}
	f.glyphs[r] = g
	return g, nil
}

// Scale converts font units to world units for the given text size.
func (f *Font) Scale(size float32) float32 {
	return size / f.Resolution
}
