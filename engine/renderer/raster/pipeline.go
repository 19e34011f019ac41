package raster

import (
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// DrawCall is one mesh to draw: geometry and material with a world matrix.
type DrawCall struct {
	Geometry *metadata.Geometry
	Material *metadata.Material
	Model    math.Mat4
}

type clipVertex struct {
	clip   math.Vec4
	view   math.Vec3
	normal math.Vec3
}

func lerpVertex(a, b clipVertex, t float32) clipVertex {
	return clipVertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).MulScalar(t)),
		view:   a.view.Add(b.view.Sub(a.view).MulScalar(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).MulScalar(t)),
	}
}

type screenVertex struct {
	x, y, z float32
	invW    float32
	view    math.Vec3
	normal  math.Vec3
}

// Draw rasterizes a draw call with the given camera matrices.
func (f *Framebuffer) Draw(call DrawCall, view, projection math.Mat4) {
	g := call.Geometry
	if g == nil || call.Material == nil || f.width == 0 || f.height == 0 {
		return
	}
	modelView := call.Model.Mul(view)
	normalMatrix := modelView.Inverse().Transposed()
	shader := newMatcapShader(call.Material)

	f.scratch = f.scratch[:0]
	for _, v := range g.Vertices {
		p := v.Position.Transform(modelView)
		f.scratch = append(f.scratch, clipVertex{
			clip:   p.ToVec4(1).Transform(projection),
			view:   p,
			normal: v.Normal.TransformDirection(normalMatrix).Normalize(),
		})
	}

	count := len(g.Indices)
	if count == 0 {
		count = len(g.Vertices)
	}
	for i := 0; i+2 < count; i += 3 {
		var tri [3]clipVertex
		for k := 0; k < 3; k++ {
			idx := i + k
			if len(g.Indices) > 0 {
				idx = int(g.Indices[idx])
			}
			if idx >= len(f.scratch) {
				return
			}
			tri[k] = f.scratch[idx]
		}
		f.Stats.Triangles++
		f.clipAndDraw(tri, call.Material.Side, shader)
	}
}

// clipAndDraw clips against the near plane (z >= -w) and fans the result.
func (f *Framebuffer) clipAndDraw(tri [3]clipVertex, side metadata.Side, shader *matcapShader) {
	dist := func(v clipVertex) float32 { return v.clip.Z + v.clip.W }
	inside := 0
	for _, v := range tri {
		if dist(v) >= 0 {
			inside++
		}
	}
	if inside == 3 {
		f.drawTriangle(tri[0], tri[1], tri[2], side, shader)
		return
	}
	f.Stats.Clipped++
	if inside == 0 {
		return
	}

	poly := make([]clipVertex, 0, 4)
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		da, db := dist(a), dist(b)
		if da >= 0 {
			poly = append(poly, a)
		}
		if (da >= 0) != (db >= 0) {
			poly = append(poly, lerpVertex(a, b, da/(da-db)))
		}
	}
	for i := 1; i+1 < len(poly); i++ {
		f.drawTriangle(poly[0], poly[i], poly[i+1], side, shader)
	}
}

func (f *Framebuffer) toScreen(v clipVertex) screenVertex {
	invW := 1 / v.clip.W
	return screenVertex{
		x:      (v.clip.X*invW + 1) * 0.5 * float32(f.width),
		y:      (1 - v.clip.Y*invW) * 0.5 * float32(f.height),
		z:      v.clip.Z * invW,
		invW:   invW,
		view:   v.view,
		normal: v.normal,
	}
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (f *Framebuffer) drawTriangle(c0, c1, c2 clipVertex, side metadata.Side, shader *matcapShader) {
	a, b, c := f.toScreen(c0), f.toScreen(c1), f.toScreen(c2)

	// screen y points down, so counter-clockwise triangles have negative area
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	front := area < 0
	if (side == metadata.SideFront && !front) || (side == metadata.SideBack && front) {
		f.Stats.Culled++
		return
	}
	flip := float32(1)
	if !front {
		flip = -1
	}

	minX := max(int(min(a.x, b.x, c.x)), 0)
	maxX := min(int(max(a.x, b.x, c.x))+1, f.width-1)
	minY := max(int(min(a.y, b.y, c.y)), 0)
	maxY := min(int(max(a.y, b.y, c.y))+1, f.height-1)

	inv := 1 / area
	pix := f.Color.Pix
	stride := f.Color.Stride
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			l0 := edge(b, c, px, py) * inv
			l1 := edge(c, a, px, py) * inv
			l2 := edge(a, b, px, py) * inv
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}
			z := l0*a.z + l1*b.z + l2*c.z
			if z < -1 || z > 1 {
				continue
			}
			di := y*f.width + x
			if z >= f.Depth[di] {
				continue
			}

			// perspective correct attributes
			w0, w1, w2 := l0*a.invW, l1*b.invW, l2*c.invW
			norm := 1 / (w0 + w1 + w2)
			w0, w1, w2 = w0*norm, w1*norm, w2*norm
			viewPos := a.view.MulScalar(w0).Add(b.view.MulScalar(w1)).Add(c.view.MulScalar(w2))
			normal := a.normal.MulScalar(w0).Add(b.normal.MulScalar(w1)).Add(c.normal.MulScalar(w2))
			normal = normal.MulScalar(flip).Normalize()

			colour := shader.shade(viewPos.MulScalar(-1).Normalize(), normal)

			f.Depth[di] = z
			o := y*stride + x*4
			pix[o+0] = encode(colour.X)
			pix[o+1] = encode(colour.Y)
			pix[o+2] = encode(colour.Z)
			pix[o+3] = 255
			f.Stats.Fragments++
		}
	}
}
