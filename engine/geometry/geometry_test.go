package geometry

import (
	"testing"

	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/math"
)

const typefaceN = `{
  "familyName": "Helvetiker",
  "resolution": 1000,
  "underlineThickness": 69,
  "boundingBox": {"yMin": -283, "yMax": 1075},
  "glyphs": {
    "N": {"ha": 944, "o": "m 92 0 l 92 1013 l 235 1013 l 718 192 l 718 1013 l 850 1013 l 850 0 l 707 0 l 224 820 l 224 0 z "}
  }
}`

func triangleArea(a, b, c math.Vec2) float32 {
	return cross(a, b, c) / 2
}

func signedVolume(vertices []math.Vertex3D) float32 {
	var v float32
	for i := 0; i+2 < len(vertices); i += 3 {
		a, b, c := vertices[i].Position, vertices[i+1].Position, vertices[i+2].Position
		v += a.Dot(b.Cross(c))
	}
	return v / 6
}

func TestTriangulateSquareWithHole(t *testing.T) {
	shape := Shape{
		Outer: Contour{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		Holes: []Contour{{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}}},
	}
	tris, err := Triangulate(shape)
	if err != nil {
		t.Fatal(err)
	}
	pts := Points(shape)
	var total float32
	for _, tri := range tris {
		a := triangleArea(pts[tri[0]], pts[tri[1]], pts[tri[2]])
		if a <= 0 {
			t.Fatalf("triangle %v is not counter-clockwise", tri)
		}
		total += a
	}
	if total != 12 {
		t.Fatalf("area = %f, want 12", total)
	}
}

func TestTriangulateRejectsDegenerate(t *testing.T) {
	if _, err := Triangulate(Shape{Outer: Contour{{X: 0, Y: 0}, {X: 1, Y: 1}}}); err != ErrTriangulation {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildShapesNesting(t *testing.T) {
	square := func(x0, y0, x1, y1 float32) Contour {
		return Contour{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	}
	// an outer box, its hole and an island inside the hole
	contours := []Contour{
		square(2, 2, 8, 8),
		square(0, 0, 10, 10).Reversed(),
		square(4, 4, 6, 6).Reversed(),
	}
	shapes := BuildShapes(contours)
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes", len(shapes))
	}
	if shapes[0].Outer.IsClockwise() || len(shapes[0].Holes) != 1 || !shapes[0].Holes[0].IsClockwise() {
		t.Fatalf("outer shape = %+v", shapes[0])
	}
	if shapes[0].Outer.Area() != 100 || shapes[0].Holes[0].Area() != -36 {
		t.Fatalf("areas = %f, %f", shapes[0].Outer.Area(), shapes[0].Holes[0].Area())
	}
	if shapes[1].Outer.Area() != 4 || len(shapes[1].Holes) != 0 {
		t.Fatalf("island = %+v", shapes[1])
	}
}

func TestFlattenGlyphCurves(t *testing.T) {
	cmds := []font.PathCommand{
		{Op: font.PathOpMoveTo, Points: [3]math.Vec2{{X: 0, Y: 0}}},
		{Op: font.PathOpQuadTo, Points: [3]math.Vec2{{X: 5, Y: 10}, {X: 10, Y: 0}}},
		{Op: font.PathOpLineTo, Points: [3]math.Vec2{{X: 0, Y: 0}}},
	}
	contours := FlattenGlyph(cmds, 0.5, math.NewVec2(1, 0), 4)
	if len(contours) != 1 {
		t.Fatalf("got %d contours", len(contours))
	}
	c := contours[0]
	// start, four curve points, and the closing point is dropped
	if len(c) != 5 {
		t.Fatalf("got %d points: %v", len(c), c)
	}
	if c[0] != math.NewVec2(1, 0) || c[4] != math.NewVec2(6, 0) {
		t.Fatalf("ends = %v %v", c[0], c[4])
	}
	// curve midpoint of (0,0) (5,10) (10,0) is (5,5), scaled and offset
	if !c[2].Compare(math.NewVec2(3.5, 2.5), 1e-5) {
		t.Fatalf("midpoint = %v", c[2])
	}
}

func TestExtrudeN(t *testing.T) {
	f, err := font.ParseTypeface([]byte(typefaceN))
	if err != nil {
		t.Fatal(err)
	}
	shapes := TextShapes("N", f, 0.5, 12)
	if len(shapes) != 1 || len(shapes[0].Outer) != 10 || len(shapes[0].Holes) != 0 {
		t.Fatalf("shapes = %+v", shapes)
	}

	opts := ExtrudeOptions{
		Depth:          0.05,
		Steps:          1,
		BevelEnabled:   true,
		BevelThickness: 0.03,
		BevelSize:      0.02,
		BevelSegments:  5,
	}
	vertices, err := Extrude(shapes[0], opts)
	if err != nil {
		t.Fatal(err)
	}
	// 8 triangles per cap, 10 edges across 11 layer gaps
	if got := len(vertices) / 3; got != 236 {
		t.Fatalf("triangles = %d", got)
	}
	if v := signedVolume(vertices); v <= 0 {
		t.Fatalf("faces point inwards, volume = %f", v)
	}
	ext := math.GeometryExtents(vertices)
	if !ext.Min.Compare(math.NewVec3(0.026, -0.02, -0.03), 1e-5) || !ext.Max.Compare(math.NewVec3(0.445, 0.5265, 0.08), 1e-5) {
		t.Fatalf("extents = %+v", ext)
	}
	for i, v := range vertices {
		if l := v.Normal.Length(); l < 0.999 || l > 1.001 {
			t.Fatalf("vertex %d normal %v", i, v.Normal)
		}
	}
}

func TestNewTextGeometryCentered(t *testing.T) {
	f, err := font.ParseTypeface([]byte(typefaceN))
	if err != nil {
		t.Fatal(err)
	}
	opts := TextOptions{Size: 0.5, ExtrudeOptions: ExtrudeOptions{
		Depth: 0.05, Steps: 1, CurveSegments: 12,
		BevelEnabled: true, BevelThickness: 0.03, BevelSize: 0.02, BevelSegments: 5,
	}}
	g, err := NewTextGeometry("N", f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if g.TriangleCount() != 236 {
		t.Fatalf("triangles = %d", g.TriangleCount())
	}
	g.CenterOnOrigin()
	if !g.Center.Compare(math.NewVec3Zero(), 1e-5) {
		t.Fatalf("center = %v", g.Center)
	}
	size := g.Extents.Size()
	if !size.Compare(math.NewVec3(0.419, 0.5465, 0.11), 1e-4) {
		t.Fatalf("size = %v", size)
	}

	// unknown glyphs are skipped, a text of nothing but them is an error
	if _, err := NewTextGeometry("??", f, opts); err == nil {
		t.Fatal("expected an error for missing glyphs")
	}
	two, err := NewTextGeometry("N\nN", f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if two.TriangleCount() != 472 || two.Extents.Min.Y > -0.7 {
		t.Fatalf("two lines: %d triangles, min y %f", two.TriangleCount(), two.Extents.Min.Y)
	}
}
