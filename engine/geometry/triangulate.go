package geometry

import (
	"errors"
	"sort"

	"github.com/spaghettifunk/quadn/engine/math"
)

var ErrTriangulation = errors.New("could not triangulate polygon")

// Triangulate splits a shape into triangles by ear clipping. The returned
// indices point into Points(shape): the outer contour first, then each hole
// in order. Triangles are counter-clockwise.
func Triangulate(shape Shape) ([][3]int, error) {
	pts := Points(shape)
	if len(shape.Outer) < 3 {
		return nil, ErrTriangulation
	}

	poly := make([]int, len(shape.Outer))
	for i := range poly {
		poly[i] = i
	}

	// bridge holes into the outer ring, rightmost hole first
	type hole struct {
		start, count int
		rightmost    int
	}
	holes := make([]hole, 0, len(shape.Holes))
	start := len(shape.Outer)
	for _, h := range shape.Holes {
		if len(h) >= 3 {
			r := 0
			for i := range h {
				if h[i].X > h[r].X || (h[i].X == h[r].X && h[i].Y < h[r].Y) {
					r = i
				}
			}
			holes = append(holes, hole{start: start, count: len(h), rightmost: start + r})
		}
		start += len(h)
	}
	sort.SliceStable(holes, func(i, j int) bool {
		return pts[holes[i].rightmost].X > pts[holes[j].rightmost].X
	})
	for _, h := range holes {
		var err error
		poly, err = bridgeHole(pts, poly, h.start, h.count, h.rightmost)
		if err != nil {
			return nil, err
		}
	}

	return earClip(pts, poly)
}

// Points flattens a shape into the vertex order used by Triangulate.
func Points(shape Shape) []math.Vec2 {
	n := len(shape.Outer)
	for _, h := range shape.Holes {
		n += len(h)
	}
	pts := make([]math.Vec2, 0, n)
	pts = append(pts, shape.Outer...)
	for _, h := range shape.Holes {
		pts = append(pts, h...)
	}
	return pts
}

func cross(o, a, b math.Vec2) float32 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// bridgeHole connects the hole's rightmost vertex M to a visible vertex P of
// the polygon and splices the hole in as P, M, ...hole..., M, P.
func bridgeHole(pts []math.Vec2, poly []int, start, count, rightmost int) ([]int, error) {
	m := pts[rightmost]

	// closest edge crossing the ray from M towards +x
	best := -1
	bestX := float32(0)
	for i := range poly {
		a, b := pts[poly[i]], pts[poly[(i+1)%len(poly)]]
		if (a.Y > m.Y) == (b.Y > m.Y) && a.Y != m.Y && b.Y != m.Y {
			continue
		}
		if a.Y == b.Y {
			continue
		}
		x := a.X + (m.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < m.X {
			continue
		}
		if best < 0 || x < bestX {
			best, bestX = i, x
		}
	}
	if best < 0 {
		return nil, ErrTriangulation
	}

	// candidate: edge endpoint with the larger x
	ia, ib := best, (best+1)%len(poly)
	p := ia
	if pts[poly[ib]].X > pts[poly[ia]].X {
		p = ib
	}

	// a reflex vertex inside triangle (M, I, P) would block the bridge;
	// choose the one closest in angle to the ray instead
	i := math.NewVec2(bestX, m.Y)
	pp := pts[poly[p]]
	if pp.X != bestX || pp.Y != m.Y {
		bestAngle := float32(-1)
		for k := range poly {
			if k == p {
				continue
			}
			v := pts[poly[k]]
			if v.X < m.X || v == pp {
				continue
			}
			prev := pts[poly[(k-1+len(poly))%len(poly)]]
			next := pts[poly[(k+1)%len(poly)]]
			if cross(prev, v, next) > 0 {
				// convex, cannot block
				continue
			}
			if !pointInTriangle(v, m, i, pp) {
				continue
			}
			d := v.Sub(m)
			// cosine of the angle to the +x ray, larger is closer
			angle := d.X / d.Length()
			if angle > bestAngle {
				bestAngle = angle
				p = k
			}
		}
	}

	out := make([]int, 0, len(poly)+count+2)
	out = append(out, poly[:p+1]...)
	r := rightmost - start
	for k := 0; k <= count; k++ {
		out = append(out, start+(r+k)%count)
	}
	out = append(out, poly[p])
	out = append(out, poly[p+1:]...)
	return out, nil
}

func pointInTriangle(p, a, b, c math.Vec2) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func earClip(pts []math.Vec2, poly []int) ([][3]int, error) {
	const eps = 1e-12
	tris := make([][3]int, 0, len(poly))

	for guard := 0; len(poly) > 3; guard++ {
		if guard > len(pts)*len(pts)+16 {
			return nil, ErrTriangulation
		}
		n := len(poly)
		clipped := false
		for k := 0; k < n; k++ {
			ia, ib, ic := poly[(k-1+n)%n], poly[k], poly[(k+1)%n]
			a, b, c := pts[ia], pts[ib], pts[ic]
			area := cross(a, b, c)
			if area <= eps && area >= -eps {
				// collinear or a spike left by a bridge
				poly = append(poly[:k:k], poly[k+1:]...)
				clipped = true
				break
			}
			if area < 0 {
				continue
			}
			if !isEar(pts, poly, k, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{ia, ib, ic})
			poly = append(poly[:k:k], poly[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// self-touching input; cut the first convex corner anyway
			for k := 0; k < n; k++ {
				ia, ib, ic := poly[(k-1+n)%n], poly[k], poly[(k+1)%n]
				if cross(pts[ia], pts[ib], pts[ic]) > 0 {
					tris = append(tris, [3]int{ia, ib, ic})
					poly = append(poly[:k:k], poly[k+1:]...)
					clipped = true
					break
				}
			}
			if !clipped {
				return nil, ErrTriangulation
			}
		}
	}
	if len(poly) == 3 {
		a, b, c := pts[poly[0]], pts[poly[1]], pts[poly[2]]
		if area := cross(a, b, c); area > eps {
			tris = append(tris, [3]int{poly[0], poly[1], poly[2]})
		}
	}
	return tris, nil
}

func isEar(pts []math.Vec2, poly []int, k int, a, b, c math.Vec2) bool {
	n := len(poly)
	for j := 0; j < n; j++ {
		if j == k || j == (k-1+n)%n || j == (k+1)%n {
			continue
		}
		p := pts[poly[j]]
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}
