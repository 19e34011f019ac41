package raster

import (
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

// matcapUV maps a view space normal to matcap coordinates. viewDir points
// from the surface towards the eye.
func matcapUV(viewDir, normal math.Vec3) math.Vec2 {
	x := math.NewVec3(viewDir.Z, 0, -viewDir.X).Normalize()
	y := viewDir.Cross(x)
	return math.NewVec2(
		x.Dot(normal)*0.495+0.5,
		y.Dot(normal)*0.495+0.5,
	)
}

type matcapShader struct {
	tint   math.Vec3
	texmap *metadata.TextureMap
	srgb   bool
}

func newMatcapShader(mat *metadata.Material) *matcapShader {
	s := &matcapShader{tint: mat.Colour.ToVec3()}
	if mat.Matcap != nil && mat.Matcap.Texture != nil && mat.Matcap.Texture.Image != nil {
		s.texmap = mat.Matcap
		s.srgb = mat.Matcap.Texture.ColorSpace == metadata.ColorSpaceSRGB
	}
	return s
}

// shade returns the linear colour of a fragment.
func (s *matcapShader) shade(viewDir, normal math.Vec3) math.Vec3 {
	uv := matcapUV(viewDir, normal)
	var c math.Vec3
	if s.texmap == nil {
		// plain grey ramp when no matcap is bound
		g := math.Lerp[float32](0.2, 0.8, uv.Y)
		c = math.NewVec3(g, g, g)
	} else {
		c = s.sample(uv)
	}
	return c.Mul(s.tint)
}

func wrap(v float32, mode metadata.TextureRepeat) float32 {
	if mode == metadata.TextureRepeatRepeat {
		return v - float32(floor(v))
	}
	return math.Clamp(v, 0, 1)
}

func texelIndex(i, size int, mode metadata.TextureRepeat) int {
	if mode == metadata.TextureRepeatRepeat {
		i %= size
		if i < 0 {
			i += size
		}
		return i
	}
	return math.Clamp(i, 0, size-1)
}

// sample reads the matcap at uv, with v pointing up the image.
func (s *matcapShader) sample(uv math.Vec2) math.Vec3 {
	tm := s.texmap
	img := tm.Texture.Image
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	u := wrap(uv.X, tm.RepeatU)
	v := 1 - wrap(uv.Y, tm.RepeatV)

	texel := func(x, y int) math.Vec3 {
		x = texelIndex(x, w, tm.RepeatU)
		y = texelIndex(y, h, tm.RepeatV)
		o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
		p := img.Pix[o : o+3 : o+3]
		if s.srgb {
			return math.NewVec3(decodeLUT[p[0]], decodeLUT[p[1]], decodeLUT[p[2]])
		}
		return math.NewVec3(float32(p[0])/255, float32(p[1])/255, float32(p[2])/255)
	}

	if tm.Filter == metadata.TextureFilterModeNearest {
		return texel(min(int(u*float32(w)), w-1), min(int(v*float32(h)), h-1))
	}

	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0, y0 := floor(fx), floor(fy)
	tx, ty := fx-float32(x0), fy-float32(y0)
	top := lerp3(texel(x0, y0), texel(x0+1, y0), tx)
	bottom := lerp3(texel(x0, y0+1), texel(x0+1, y0+1), tx)
	return lerp3(top, bottom, ty)
}

func floor(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

func lerp3(a, b math.Vec3, t float32) math.Vec3 {
	return a.Add(b.Sub(a).MulScalar(t))
}
