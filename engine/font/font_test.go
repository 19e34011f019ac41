package font

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/quadn/engine/math"
	"golang.org/x/image/font/gofont/goregular"
)

const typefaceN = `{
  "familyName": "Helvetiker",
  "resolution": 1000,
  "ascender": 1077,
  "descender": -281,
  "underlineThickness": 69,
  "boundingBox": {"yMin": -283, "xMin": -111, "yMax": 1075, "xMax": 1640},
  "glyphs": {
    "N": {"ha": 944, "x_min": 92, "x_max": 850, "o": "m 92 0 l 92 1013 l 235 1013 l 718 192 l 718 1013 l 850 1013 l 850 0 l 707 0 l 224 820 l 224 0 z "},
    "o": {"ha": 100, "x_min": 0, "x_max": 100, "o": "m 0 0 q 100 0 50 -50 b 0 100 10 10 20 20 z"}
  }
}`

func TestParseTypeface(t *testing.T) {
	f, err := ParseTypeface([]byte(typefaceN))
	if err != nil {
		t.Fatal(err)
	}
	if f.Family != "Helvetiker" || f.Resolution != 1000 {
		t.Fatalf("font = %s/%f", f.Family, f.Resolution)
	}
	if f.Scale(0.5) != 0.0005 {
		t.Fatalf("scale = %f", f.Scale(0.5))
	}
	if f.LineHeight != 1075+283+69 {
		t.Fatalf("line height = %f", f.LineHeight)
	}

	n, err := f.Glyph('N')
	if err != nil {
		t.Fatal(err)
	}
	if n.Advance != 944 || len(n.Commands) != 10 {
		t.Fatalf("glyph N: advance %f, %d commands", n.Advance, len(n.Commands))
	}
	if n.Commands[0].Op != PathOpMoveTo || n.Commands[3].End() != math.NewVec2(718, 192) {
		t.Fatalf("unexpected commands %+v", n.Commands[:4])
	}

	// curves list the end point first
	o, err := f.Glyph('o')
	if err != nil {
		t.Fatal(err)
	}
	q := o.Commands[1]
	if q.Op != PathOpQuadTo || q.Points[0] != math.NewVec2(50, -50) || q.End() != math.NewVec2(100, 0) {
		t.Fatalf("quad = %+v", q)
	}
	b := o.Commands[2]
	if b.Op != PathOpCubeTo || b.Points[0] != math.NewVec2(10, 10) || b.Points[1] != math.NewVec2(20, 20) || b.End() != math.NewVec2(0, 100) {
		t.Fatalf("cubic = %+v", b)
	}

	if _, err := f.Glyph('Z'); !errors.Is(err, ErrGlyphNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseTypefaceRejectsBadOutline(t *testing.T) {
	doc := `{"familyName": "x", "resolution": 1000, "glyphs": {"A": {"ha": 1, "o": "m 0 0 l 5"}}}`
	if _, err := ParseTypeface([]byte(doc)); !errors.Is(err, ErrBadOutline) {
		t.Fatalf("err = %v", err)
	}
	if _, err := ParseTypeface([]byte(`{"glyphs": {}}`)); err == nil {
		t.Fatal("expected an error without resolution")
	}
}

func TestParseSFNT(t *testing.T) {
	f, err := ParseSFNT(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if f.Resolution <= 0 || f.Ascender <= 0 || f.Descender >= 0 {
		t.Fatalf("metrics = %f %f %f", f.Resolution, f.Ascender, f.Descender)
	}
	n, err := f.Glyph('N')
	if err != nil {
		t.Fatal(err)
	}
	if n.Advance <= 0 || len(n.Commands) == 0 || n.Commands[0].Op != PathOpMoveTo {
		t.Fatalf("glyph N = %+v", n)
	}
	// outlines are flipped to y up, so the glyph sits above the baseline
	var maxY float32
	for _, c := range n.Commands {
		maxY = max(maxY, c.End().Y)
	}
	if maxY <= 0 {
		t.Fatalf("max y = %f", maxY)
	}
	again, _ := f.Glyph('N')
	if again != n {
		t.Fatal("glyphs should be cached")
	}
	if _, err := f.Glyph('\U0001F600'); !errors.Is(err, ErrGlyphNotFound) {
		t.Fatalf("err = %v", err)
	}
}
