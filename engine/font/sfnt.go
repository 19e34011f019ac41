package font

import (
	"fmt"

	"github.com/spaghettifunk/quadn/engine/math"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ParseSFNT reads a TrueType or OpenType font. Glyph outlines are loaded on demand.
func ParseSFNT(data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}
	var buf sfnt.Buffer

	upem := int(sf.UnitsPerEm())
	ppem := fixed.I(upem)

	family, err := sf.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		family = "unknown"
	}
	metrics, err := sf.Metrics(&buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("could not read metrics of `%s`: %w", family, err)
	}

	f := &Font{
		Family:     family,
		Resolution: float32(upem),
		Ascender:   fixedToFloat(metrics.Ascent),
		Descender:  -fixedToFloat(metrics.Descent),
		LineHeight: fixedToFloat(metrics.Height),
		glyphs:     make(map[rune]*Glyph),
	}

	// Callers hold f.mutex, which also guards buf.
	f.load = func(r rune) (*Glyph, error) {
		idx, err := sf.GlyphIndex(&buf, r)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrGlyphNotFound, r, family)
		}
		advance, err := sf.GlyphAdvance(&buf, idx, ppem, xfont.HintingNone)
		if err != nil {
			return nil, err
		}
		segments, err := sf.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, err
		}
		g := &Glyph{Rune: r, Advance: fixedToFloat(advance)}
		for _, seg := range segments {
			cmd := PathCommand{}
			n := 1
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				cmd.Op = PathOpMoveTo
			case sfnt.SegmentOpLineTo:
				cmd.Op = PathOpLineTo
			case sfnt.SegmentOpQuadTo:
				cmd.Op = PathOpQuadTo
				n = 2
			case sfnt.SegmentOpCubeTo:
				cmd.Op = PathOpCubeTo
				n = 3
			}
			for k := 0; k < n; k++ {
				// sfnt uses y down
				cmd.Points[k] = math.NewVec2(fixedToFloat(seg.Args[k].X), -fixedToFloat(seg.Args[k].Y))
			}
			g.Commands = append(g.Commands, cmd)
		}
		return g, nil
	}
	return f, nil
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
