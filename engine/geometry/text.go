package geometry

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

var ErrEmptyText = errors.New("text produced no geometry")

// TextOptions describe extruded text. Size is the em height in world
// units; the rest is passed to Extrude.
type TextOptions struct {
	Size float32
	ExtrudeOptions
}

func DefaultTextOptions() TextOptions {
	opts := DefaultExtrudeOptions()
	opts.Depth = 50
	opts.BevelThickness = 10
	opts.BevelSize = 8
	return TextOptions{Size: 100, ExtrudeOptions: opts}
}

// TextShapes lays out text on a single baseline per line and returns the
// filled outlines. Glyphs the font does not have are skipped.
func TextShapes(text string, f *font.Font, size float32, curveSegments int) []Shape {
	scale := f.Scale(size)
	var offset math.Vec2
	var shapes []Shape
	for _, r := range text {
		if r == '\n' {
			offset.X = 0
			offset.Y -= f.LineHeight * scale
			continue
		}
		g, err := f.Glyph(r)
		if err != nil {
			core.LogWarn("skipping glyph %q: %s", r, err)
			continue
		}
		shapes = append(shapes, BuildShapes(FlattenGlyph(g.Commands, scale, offset, curveSegments))...)
		offset.X += g.Advance * scale
	}
	return shapes
}

// NewTextGeometry builds an extruded mesh of text. The front faces +z and
// the glyphs start at the origin; call CenterOnOrigin to center them.
func NewTextGeometry(text string, f *font.Font, opts TextOptions) (*metadata.Geometry, error) {
	if f == nil {
		return nil, errors.New("text geometry needs a font")
	}
	var vertices []math.Vertex3D
	for i, shape := range TextShapes(text, f, opts.Size, opts.CurveSegments) {
		v, err := Extrude(shape, opts.ExtrudeOptions)
		if err != nil {
			return nil, fmt.Errorf("shape %d of %q: %w", i, text, err)
		}
		vertices = append(vertices, v...)
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyText, text)
	}
	indices := make([]uint32, len(vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}
	return metadata.NewGeometry(fmt.Sprintf("text:%s", text), vertices, indices), nil
}
