package font

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spaghettifunk/quadn/engine/math"
)

type typefaceGlyph struct {
	Ha      float32 `json:"ha"`
	XMin    float32 `json:"x_min"`
	XMax    float32 `json:"x_max"`
	Outline string  `json:"o"`
}

type typefaceFile struct {
	FamilyName         string                   `json:"familyName"`
	Resolution         float32                  `json:"resolution"`
	Ascender           float32                  `json:"ascender"`
	Descender          float32                  `json:"descender"`
	UnderlineThickness float32                  `json:"underlineThickness"`
	Glyphs             map[string]typefaceGlyph `json:"glyphs"`
	BoundingBox        struct {
		YMin float32 `json:"yMin"`
		YMax float32 `json:"yMax"`
	} `json:"boundingBox"`
}

// ParseTypeface reads a three.js typeface JSON document.
func ParseTypeface(data []byte) (*Font, error) {
	var tf typefaceFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("could not decode typeface: %w", err)
	}
	if tf.Resolution <= 0 {
		return nil, fmt.Errorf("typeface `%s` has no resolution", tf.FamilyName)
	}

	f := &Font{
		Family:     tf.FamilyName,
		Resolution: tf.Resolution,
		Ascender:   tf.Ascender,
		Descender:  tf.Descender,
		LineHeight: tf.BoundingBox.YMax - tf.BoundingBox.YMin + tf.UnderlineThickness,
		glyphs:     make(map[rune]*Glyph, len(tf.Glyphs)),
	}
	for key, g := range tf.Glyphs {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			continue
		}
		cmds, err := parseOutline(g.Outline)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", r, err)
		}
		f.glyphs[r] = &Glyph{Rune: r, Advance: g.Ha, Commands: cmds}
	}
	return f, nil
}

// parseOutline reads the "m x y l x y q x y cx cy b x y c1x c1y c2x c2y"
// command string. Curves list their end point before their control points.
func parseOutline(o string) ([]PathCommand, error) {
	tokens := strings.Fields(o)
	var cmds []PathCommand

	read := func(i, n int) ([]float32, error) {
		if i+n*2 > len(tokens) {
			return nil, fmt.Errorf("%w: truncated at token %d", ErrBadOutline, i)
		}
		out := make([]float32, n*2)
		for k := range out {
			v, err := strconv.ParseFloat(tokens[i+k], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadOutline, err)
			}
			out[k] = float32(v)
		}
		return out, nil
	}

	for i := 0; i < len(tokens); {
		action := tokens[i]
		i++
		switch action {
		case "m", "l":
			v, err := read(i, 1)
			if err != nil {
				return nil, err
			}
			op := PathOpMoveTo
			if action == "l" {
				op = PathOpLineTo
			}
			cmds = append(cmds, PathCommand{Op: op, Points: [3]math.Vec2{{X: v[0], Y: v[1]}}})
			i += 2
		case "q":
			v, err := read(i, 2)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, PathCommand{Op: PathOpQuadTo, Points: [3]math.Vec2{
				{X: v[2], Y: v[3]},
				{X: v[0], Y: v[1]},
			}})
			i += 4
		case "b":
			v, err := read(i, 3)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, PathCommand{Op: PathOpCubeTo, Points: [3]math.Vec2{
				{X: v[2], Y: v[3]},
				{X: v[4], Y: v[5]},
				{X: v[0], Y: v[1]},
			}})
			i += 6
		case "z":
			// contours close implicitly
		default:
			return nil, fmt.Errorf("%w: unknown command `%s`", ErrBadOutline, action)
		}
	}
	return cmds, nil
}
