package geometry

import (
	"sort"

	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/math"
)

// Contour is a closed polygon. The closing point is not repeated.
type Contour []math.Vec2

// Shape is a solid outline, counter-clockwise, with clockwise holes.
type Shape struct {
	Outer Contour
	Holes []Contour
}

// Area returns the signed area: positive for counter-clockwise contours.
func (c Contour) Area() float32 {
	var a float32
	n := len(c)
	for i := 0; i < n; i++ {
		p, q := c[i], c[(i+1)%n]
		a += p.X*q.Y - q.X*p.Y
	}
	return a * 0.5
}

func (c Contour) IsClockwise() bool {
	return c.Area() < 0
}

func (c Contour) Reversed() Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// Contains reports whether p is inside c, using the even-odd rule.
func (c Contour) Contains(p math.Vec2) bool {
	inside := false
	n := len(c)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := c[i], c[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// FlattenGlyph turns outline commands into polygons. Points are scaled and
// then offset; every curve is split into curveSegments lines.
func FlattenGlyph(cmds []font.PathCommand, scale float32, offset math.Vec2, curveSegments int) []Contour {
	if curveSegments < 1 {
		curveSegments = 1
	}
	tr := func(p math.Vec2) math.Vec2 {
		return p.MulScalar(scale).Add(offset)
	}

	var contours []Contour
	var current Contour
	var pen math.Vec2

	flush := func() {
		current = cleanContour(current)
		if len(current) >= 3 {
			contours = append(contours, current)
		}
		current = nil
	}

	for _, cmd := range cmds {
		switch cmd.Op {
		case font.PathOpMoveTo:
			flush()
			pen = tr(cmd.Points[0])
			current = append(current, pen)
		case font.PathOpLineTo:
			pen = tr(cmd.Points[0])
			current = append(current, pen)
		case font.PathOpQuadTo:
			c, end := tr(cmd.Points[0]), tr(cmd.Points[1])
			for i := 1; i <= curveSegments; i++ {
				current = append(current, quadratic(pen, c, end, float32(i)/float32(curveSegments)))
			}
			pen = end
		case font.PathOpCubeTo:
			c1, c2, end := tr(cmd.Points[0]), tr(cmd.Points[1]), tr(cmd.Points[2])
			for i := 1; i <= curveSegments; i++ {
				current = append(current, cubic(pen, c1, c2, end, float32(i)/float32(curveSegments)))
			}
			pen = end
		}
	}
	flush()
	return contours
}

func quadratic(p0, p1, p2 math.Vec2, t float32) math.Vec2 {
	k := 1 - t
	return p0.MulScalar(k * k).Add(p1.MulScalar(2 * k * t)).Add(p2.MulScalar(t * t))
}

func cubic(p0, p1, p2, p3 math.Vec2, t float32) math.Vec2 {
	k := 1 - t
	return p0.MulScalar(k * k * k).
		Add(p1.MulScalar(3 * k * k * t)).
		Add(p2.MulScalar(3 * k * t * t)).
		Add(p3.MulScalar(t * t * t))
}

// cleanContour drops repeated points, including a closing point equal to the first.
func cleanContour(c Contour) Contour {
	const eps = 1e-7
	out := c[:0:0]
	for _, p := range c {
		if len(out) > 0 && p.Compare(out[len(out)-1], eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Compare(out[0], eps) {
		out = out[:len(out)-1]
	}
	return out
}

// BuildShapes groups contours into solids and holes by nesting depth: a
// contour inside an even number of others is a solid, otherwise it is a
// hole of the smallest solid around it. Windings are normalized.
func BuildShapes(contours []Contour) []Shape {
	type entry struct {
		c     Contour
		area  float32
		depth int
		shape int
	}
	entries := make([]*entry, 0, len(contours))
	for _, c := range contours {
		a := c.Area()
		if a == 0 {
			continue
		}
		if a < 0 {
			a = -a
		}
		entries = append(entries, &entry{c: c, area: a, shape: -1})
	}
	// largest first, so parents come before their children
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].area > entries[j].area })

	contains := func(outer, inner Contour) bool {
		for _, p := range inner {
			if !outer.Contains(p) {
				return false
			}
		}
		return true
	}

	var shapes []Shape
	for i, e := range entries {
		parent := -1
		for j := i - 1; j >= 0; j-- {
			if contains(entries[j].c, e.c) {
				e.depth++
				if parent < 0 {
					// smallest container seen first walking back
					parent = j
				}
			}
		}
		if e.depth%2 == 0 {
			outer := e.c
			if outer.IsClockwise() {
				outer = outer.Reversed()
			}
			e.shape = len(shapes)
			shapes = append(shapes, Shape{Outer: outer})
			continue
		}
		hole := e.c
		if !hole.IsClockwise() {
			hole = hole.Reversed()
		}
		if owner := entries[parent].shape; owner >= 0 {
			shapes[owner].Holes = append(shapes[owner].Holes, hole)
		}
	}
	return shapes
}
