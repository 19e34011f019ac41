package geometry

import (
	"github.com/spaghettifunk/quadn/engine/math"
)

// ExtrudeOptions follow the usual text extrusion parameters. The bevel
// grows the outline by BevelSize while moving BevelThickness away from
// the front and back faces.
type ExtrudeOptions struct {
	Depth          float32
	Steps          int
	CurveSegments  int
	BevelEnabled   bool
	BevelThickness float32
	BevelSize      float32
	BevelOffset    float32
	BevelSegments  int
}

// DefaultExtrudeOptions matches the common defaults for extruded shapes.
func DefaultExtrudeOptions() ExtrudeOptions {
	return ExtrudeOptions{
		Depth:          1,
		Steps:          1,
		CurveSegments:  12,
		BevelEnabled:   true,
		BevelThickness: 0.2,
		BevelSize:      0.1,
		BevelOffset:    0,
		BevelSegments:  3,
	}
}

// bevelVector returns the offset direction of pt, pointing out of the
// solid, scaled so edges move by one unit. Its length is capped at sqrt(2).
func bevelVector(pt, prev, next math.Vec2) math.Vec2 {
	t1 := pt.Sub(prev).Normalize()
	t2 := next.Sub(pt).Normalize()
	n1 := math.NewVec2(t1.Y, -t1.X)
	n2 := math.NewVec2(t2.Y, -t2.X)

	sum := n1.Add(n2)
	if sum.LengthSquared() < 1e-12 {
		// edges fold back on each other
		return n1
	}
	dir := sum.Normalize()
	cos := dir.Dot(n1)
	if cos < 1e-6 {
		return dir.MulScalar(math.Sqrt(2))
	}
	v := dir.MulScalar(1 / cos)
	if v.LengthSquared() > 2 {
		v = dir.MulScalar(math.Sqrt(2))
	}
	return v
}

func contourMovements(c Contour) []math.Vec2 {
	n := len(c)
	out := make([]math.Vec2, n)
	for i := range c {
		out[i] = bevelVector(c[i], c[(i-1+n)%n], c[(i+1)%n])
	}
	return out
}

type layerPlan struct {
	z      float32
	offset float32
}

// layers returns the z and outline offset of every ring of vertices, from
// the back bevel to the front bevel.
func (o ExtrudeOptions) layers() []layerPlan {
	steps := max(o.Steps, 1)
	bevelSegments := 0
	if o.BevelEnabled {
		bevelSegments = max(o.BevelSegments, 1)
	}
	full := float32(0)
	if o.BevelEnabled {
		full = o.BevelSize + o.BevelOffset
	}

	out := make([]layerPlan, 0, steps+1+bevelSegments*2)
	for b := 0; b < bevelSegments; b++ {
		t := float32(b) / float32(bevelSegments)
		out = append(out, layerPlan{
			z:      -o.BevelThickness * math.Cos(t*math.K_HALF_PI),
			offset: o.BevelSize*math.Sin(t*math.K_HALF_PI) + o.BevelOffset,
		})
	}
	for s := 0; s <= steps; s++ {
		out = append(out, layerPlan{z: o.Depth / float32(steps) * float32(s), offset: full})
	}
	for b := bevelSegments - 1; b >= 0; b-- {
		t := float32(b) / float32(bevelSegments)
		out = append(out, layerPlan{
			z:      o.Depth + o.BevelThickness*math.Cos(t*math.K_HALF_PI),
			offset: o.BevelSize*math.Sin(t*math.K_HALF_PI) + o.BevelOffset,
		})
	}
	return out
}

// Extrude turns a shape into unshared triangles: a back cap, the side
// walls of every contour and a front cap facing +z.
func Extrude(shape Shape, opts ExtrudeOptions) ([]math.Vertex3D, error) {
	faces, err := Triangulate(shape)
	if err != nil {
		return nil, err
	}
	contours := append([]Contour{shape.Outer}, shape.Holes...)
	pts := Points(shape)
	moves := make([]math.Vec2, 0, len(pts))
	for _, c := range contours {
		moves = append(moves, contourMovements(c)...)
	}

	layers := opts.layers()
	ring := func(layer, i int) math.Vec3 {
		l := layers[layer]
		p := pts[i].Add(moves[i].MulScalar(l.offset))
		return math.NewVec3(p.X, p.Y, l.z)
	}

	out := make([]math.Vertex3D, 0, len(faces)*6+len(pts)*(len(layers)-1)*6)
	lidVertex := func(p math.Vec3) math.Vertex3D {
		return math.Vertex3D{Position: p, Texcoord: math.NewVec2(p.X, p.Y)}
	}

	back, front := 0, len(layers)-1
	for _, f := range faces {
		out = append(out,
			lidVertex(ring(back, f[2])),
			lidVertex(ring(back, f[1])),
			lidVertex(ring(back, f[0])))
	}
	for _, f := range faces {
		out = append(out,
			lidVertex(ring(front, f[0])),
			lidVertex(ring(front, f[1])),
			lidVertex(ring(front, f[2])))
	}

	base := 0
	for _, c := range contours {
		n := len(c)
		for i := 0; i < n; i++ {
			cur, next := base+i, base+(i+1)%n
			for s := 0; s < len(layers)-1; s++ {
				a, b := ring(s, cur), ring(s, next)
				cc, d := ring(s+1, next), ring(s+1, cur)
				uv := sideWallUV(a, b, cc, d)
				out = append(out,
					math.Vertex3D{Position: a, Texcoord: uv[0]},
					math.Vertex3D{Position: b, Texcoord: uv[1]},
					math.Vertex3D{Position: cc, Texcoord: uv[2]},
					math.Vertex3D{Position: a, Texcoord: uv[0]},
					math.Vertex3D{Position: cc, Texcoord: uv[2]},
					math.Vertex3D{Position: d, Texcoord: uv[3]},
				)
			}
		}
		base += n
	}

	math.GeometryGenerateNormals(out)
	return out, nil
}

// sideWallUV projects a wall quad on whichever of x or y changes most.
func sideWallUV(a, b, c, d math.Vec3) [4]math.Vec2 {
	if math.Abs(a.Y-b.Y) < math.Abs(a.X-b.X) {
		return [4]math.Vec2{
			{X: a.X, Y: 1 - a.Z}, {X: b.X, Y: 1 - b.Z},
			{X: c.X, Y: 1 - c.Z}, {X: d.X, Y: 1 - d.Z},
		}
	}
	return [4]math.Vec2{
		{X: a.Y, Y: 1 - a.Z}, {X: b.Y, Y: 1 - b.Z},
		{X: c.Y, Y: 1 - c.Z}, {X: d.Y, Y: 1 - d.Z},
	}
}
