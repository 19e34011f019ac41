package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/renderer/offscreen"
	"github.com/spaghettifunk/quadn/engine/scene"
)

type recordingOverlay struct {
	calls      int
	pixelRatio float32
	size       image.Point
}

func (o *recordingOverlay) DrawOverlay(dst *image.RGBA, pixelRatio float32) {
	o.calls++
	o.pixelRatio = pixelRatio
	o.size = dst.Bounds().Size()
}

func testScene() (*scene.Scene, *scene.Node) {
	vertices := []math.Vertex3D{
		{Position: math.NewVec3(-1, -1, 0)}, {Position: math.NewVec3(1, -1, 0)}, {Position: math.NewVec3(1, 1, 0)},
		{Position: math.NewVec3(-1, -1, 0)}, {Position: math.NewVec3(1, 1, 0)}, {Position: math.NewVec3(-1, 1, 0)},
	}
	math.GeometryGenerateNormals(vertices)
	g := metadata.NewGeometry("quad", vertices, nil)
	mesh := scene.NewMesh("quad", g, metadata.NewMatcapMaterial("grey", nil))
	s := scene.New()
	s.Add(mesh)
	return s, mesh
}

func TestRender(t *testing.T) {
	backend := offscreen.New("", 0)
	r := New(backend, math.NewVec4(0, 0, 0, 1))
	if err := r.Initialize("test", 32, 24); err != nil {
		t.Fatal(err)
	}
	if err := r.SetPixelRatio(2); err != nil {
		t.Fatal(err)
	}
	if w, h := r.DrawingBufferSize(); w != 64 || h != 48 {
		t.Fatalf("drawing buffer = %dx%d", w, h)
	}
	if w, h := backend.Size(); w != 64 || h != 48 {
		t.Fatalf("backend size = %dx%d", w, h)
	}

	cam := components.NewPerspectiveCamera(75, 32.0/24.0, 0.1, 100)
	cam.SetPosition(math.NewVec3(0, 0, 3))
	cam.LookAt(math.NewVec3Zero())

	s, mesh := testScene()
	overlay := &recordingOverlay{}
	if err := r.Render(s, cam, overlay); err != nil {
		t.Fatal(err)
	}
	if r.FrameNumber() != 1 || backend.Frames() != 1 {
		t.Fatalf("frames = %d/%d", r.FrameNumber(), backend.Frames())
	}
	if overlay.calls != 1 || overlay.pixelRatio != 2 || overlay.size != image.Pt(64, 48) {
		t.Fatalf("overlay = %+v", overlay)
	}
	if c := backend.Last().RGBAAt(32, 24); c == (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("mesh was not drawn")
	}

	mesh.Visible = false
	if err := r.Render(s, cam); err != nil {
		t.Fatal(err)
	}
	if c := backend.Last().RGBAAt(32, 24); c != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("hidden mesh drawn: %v", c)
	}
}

func TestSetSize(t *testing.T) {
	backend := offscreen.New("", 0)
	r := New(backend, math.NewVec4(0, 0, 0, 1))
	if err := r.Initialize("test", 10, 10); err != nil {
		t.Fatal(err)
	}
	if err := r.SetPixelRatio(1.5); err != nil {
		t.Fatal(err)
	}
	if err := r.SetSize(40, 20); err != nil {
		t.Fatal(err)
	}
	if w, h := r.Size(); w != 40 || h != 20 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if w, h := r.Framebuffer().Size(); w != 60 || h != 30 {
		t.Fatalf("framebuffer = %dx%d", w, h)
	}
	if err := r.SetPixelRatio(0); err == nil {
		t.Fatal("expected an error for a zero pixel ratio")
	}
}
