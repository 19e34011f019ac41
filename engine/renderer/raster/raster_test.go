package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

func solidTexture(c color.RGBA, space metadata.ColorSpace) *metadata.Texture {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	tex := metadata.NewTexture("solid", img)
	tex.ColorSpace = space
	return tex
}

// quad returns two triangles facing +z at depth z, spanning [-1, 1].
func quad(z float32, ccw bool) *metadata.Geometry {
	p := []math.Vec3{
		math.NewVec3(-1, -1, z), math.NewVec3(1, -1, z), math.NewVec3(1, 1, z),
		math.NewVec3(-1, -1, z), math.NewVec3(1, 1, z), math.NewVec3(-1, 1, z),
	}
	if !ccw {
		p[1], p[2] = p[2], p[1]
		p[4], p[5] = p[5], p[4]
	}
	vertices := make([]math.Vertex3D, len(p))
	for i := range p {
		vertices[i].Position = p[i]
	}
	math.GeometryGenerateNormals(vertices)
	return metadata.NewGeometry("quad", vertices, nil)
}

func camera() (math.Mat4, math.Mat4) {
	view := math.NewMat4LookAt(math.NewVec3Zero(), math.NewVec3(0, 0, -1), math.NewVec3Up())
	proj := math.NewMat4Perspective(math.DegToRad(90), 1, 0.1, 100)
	return view, proj
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestClear(t *testing.T) {
	f := NewFramebuffer(4, 3)
	f.Clear(math.NewVec4(1, 0, 0, 1))
	if got := f.Color.RGBAAt(3, 2); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if len(f.Depth) != 12 || f.Depth[5] != 1 {
		t.Fatalf("depth = %v", f.Depth)
	}
	f.Resize(8, 8)
	if w, h := f.Size(); w != 8 || h != 8 || f.Color.Bounds().Dx() != 8 {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestDrawMatcapQuad(t *testing.T) {
	f := NewFramebuffer(64, 64)
	f.Clear(math.NewVec4(0, 0, 0, 1))
	view, proj := camera()

	mat := metadata.NewMatcapMaterial("m", solidTexture(color.RGBA{200, 100, 50, 255}, metadata.ColorSpaceSRGB))
	f.Draw(DrawCall{Geometry: quad(-2, true), Material: mat, Model: math.NewMat4Identity()}, view, proj)

	got := f.Color.RGBAAt(32, 32)
	if !near(got.R, 200) || !near(got.G, 100) || !near(got.B, 50) {
		t.Fatalf("center = %v", got)
	}
	// at depth 2 with a 90 degree fov the quad covers the middle half
	if corner := f.Color.RGBAAt(2, 2); corner != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("corner = %v", corner)
	}
	if f.Stats.Triangles != 2 || f.Stats.Fragments < 30*30 {
		t.Fatalf("stats = %+v", f.Stats)
	}
}

func TestDrawLinearMatcapIsEncoded(t *testing.T) {
	f := NewFramebuffer(16, 16)
	f.Clear(math.NewVec4(0, 0, 0, 1))
	view, proj := camera()
	mat := metadata.NewMatcapMaterial("m", solidTexture(color.RGBA{128, 128, 128, 255}, metadata.ColorSpaceLinear))
	f.Draw(DrawCall{Geometry: quad(-2, true), Material: mat, Model: math.NewMat4Identity()}, view, proj)
	// linear 0.5 is about 188 once encoded
	if got := f.Color.RGBAAt(8, 8); !near(got.R, 188) {
		t.Fatalf("center = %v", got)
	}
}

func TestCulling(t *testing.T) {
	view, proj := camera()
	tests := []struct {
		name    string
		side    metadata.Side
		ccw     bool
		visible bool
	}{
		{"front faces front", metadata.SideFront, true, true},
		{"front faces back", metadata.SideFront, false, false},
		{"back faces back", metadata.SideBack, false, true},
		{"double", metadata.SideDouble, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFramebuffer(16, 16)
			f.Clear(math.NewVec4(0, 0, 0, 1))
			mat := metadata.NewMatcapMaterial("m", solidTexture(color.RGBA{255, 255, 255, 255}, metadata.ColorSpaceSRGB))
			mat.Side = tt.side
			f.Draw(DrawCall{Geometry: quad(-2, tt.ccw), Material: mat, Model: math.NewMat4Identity()}, view, proj)
			if drawn := f.Stats.Fragments > 0; drawn != tt.visible {
				t.Fatalf("drawn = %v, stats %+v", drawn, f.Stats)
			}
		})
	}
}

func TestDepthTest(t *testing.T) {
	f := NewFramebuffer(16, 16)
	f.Clear(math.NewVec4(0, 0, 0, 1))
	view, proj := camera()
	tex := solidTexture(color.RGBA{255, 255, 255, 255}, metadata.ColorSpaceSRGB)

	red := metadata.NewMatcapMaterial("red", tex)
	red.Colour = math.NewVec4(1, 0, 0, 1)
	green := metadata.NewMatcapMaterial("green", tex)
	green.Colour = math.NewVec4(0, 1, 0, 1)

	f.Draw(DrawCall{Geometry: quad(-2, true), Material: red, Model: math.NewMat4Identity()}, view, proj)
	f.Draw(DrawCall{Geometry: quad(-3, true), Material: green, Model: math.NewMat4Identity()}, view, proj)
	if got := f.Color.RGBAAt(8, 8); got.R != 255 || got.G != 0 {
		t.Fatalf("far quad drew over the near one: %v", got)
	}
}

func TestNearPlaneClipping(t *testing.T) {
	f := NewFramebuffer(16, 16)
	f.Clear(math.NewVec4(0, 0, 0, 1))
	view, proj := camera()
	vertices := []math.Vertex3D{
		{Position: math.NewVec3(-1, -1, 1)},
		{Position: math.NewVec3(1, -1, -3)},
		{Position: math.NewVec3(0, 1, -3)},
	}
	math.GeometryGenerateNormals(vertices)
	g := metadata.NewGeometry("tri", vertices, nil)
	mat := metadata.NewMatcapMaterial("m", nil)
	mat.Side = metadata.SideDouble
	f.Draw(DrawCall{Geometry: g, Material: mat, Model: math.NewMat4Identity()}, view, proj)
	if f.Stats.Clipped != 1 || f.Stats.Fragments == 0 {
		t.Fatalf("stats = %+v", f.Stats)
	}
}

func TestMatcapUV(t *testing.T) {
	uv := matcapUV(math.NewVec3(0, 0, 1), math.NewVec3(0, 0, 1))
	if !uv.Compare(math.NewVec2(0.5, 0.5), 1e-6) {
		t.Fatalf("uv = %v", uv)
	}
	uv = matcapUV(math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0))
	if !uv.Compare(math.NewVec2(0.995, 0.5), 1e-6) {
		t.Fatalf("uv = %v", uv)
	}
	uv = matcapUV(math.NewVec3(0, 0, 1), math.NewVec3(0, 1, 0))
	if !uv.Compare(math.NewVec2(0.5, 0.995), 1e-6) {
		t.Fatalf("uv = %v", uv)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		if got := encode(decodeLUT[i]); !near(got, uint8(i)) {
			t.Fatalf("%d -> %d", i, got)
		}
	}
}

func TestCopyScaled(t *testing.T) {
	f := NewFramebuffer(2, 1)
	f.Color.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	f.Color.SetRGBA(1, 0, color.RGBA{4, 5, 6, 255})

	dst := make([]byte, 4*2*4)
	f.CopyScaled(dst, 4, 2, true)
	want := []byte{3, 2, 1, 255, 3, 2, 1, 255, 6, 5, 4, 255, 6, 5, 4, 255}
	for i := range want {
		if dst[i] != want[i] || dst[16+i] != want[i] {
			t.Fatalf("dst = %v", dst)
		}
	}

	f.CopyScaled(dst[:4], 1, 1, false)
	if dst[0] != 1 || dst[2] != 3 {
		t.Fatalf("rgba = %v", dst[:4])
	}
}
