package renderer

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
	"github.com/spaghettifunk/quadn/engine/renderer/raster"
	"github.com/spaghettifunk/quadn/engine/scene"
)

// Overlay draws on top of the rendered scene, in drawing buffer pixels.
type Overlay interface {
	DrawOverlay(dst *image.RGBA, pixelRatio float32)
}

/**
 * @brief Draws a scene through a camera into a framebuffer of
 * size*pixelRatio pixels and hands it to the backend.
 */
type Renderer struct {
	backend     Backend
	framebuffer *raster.Framebuffer
	clearColour math.Vec4

	width      uint32
	height     uint32
	pixelRatio float32

	frameNumber uint64
}

func New(backend Backend, clearColour math.Vec4) *Renderer {
	return &Renderer{
		backend:     backend,
		framebuffer: raster.NewFramebuffer(0, 0),
		clearColour: clearColour,
		pixelRatio:  1,
	}
}

func (r *Renderer) Initialize(appName string, width, height uint32) error {
	r.width, r.height = width, height
	r.framebuffer.Resize(r.DrawingBufferSize())
	w, h := r.DrawingBufferSize()
	if err := r.backend.Initialize(appName, uint32(w), uint32(h)); err != nil {
		return fmt.Errorf("failed to initialize renderer backend: %w", err)
	}
	core.LogInfo("Renderer initialized with a %dx%d drawing buffer.", w, h)
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

// SetSize changes the output size in window units.
func (r *Renderer) SetSize(width, height uint32) error {
	r.width, r.height = width, height
	return r.resize()
}

// SetPixelRatio changes the number of drawing buffer pixels per window unit.
func (r *Renderer) SetPixelRatio(ratio float32) error {
	if ratio <= 0 {
		return fmt.Errorf("invalid pixel ratio %f", ratio)
	}
	r.pixelRatio = ratio
	return r.resize()
}

func (r *Renderer) resize() error {
	w, h := r.DrawingBufferSize()
	cw, ch := r.framebuffer.Size()
	if w == cw && h == ch {
		return nil
	}
	r.framebuffer.Resize(w, h)
	return r.backend.Resized(uint32(w), uint32(h))
}

func (r *Renderer) PixelRatio() float32 {
	return r.pixelRatio
}

func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

func (r *Renderer) DrawingBufferSize() (int, int) {
	return int(float32(r.width) * r.pixelRatio), int(float32(r.height) * r.pixelRatio)
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *Renderer) Framebuffer() *raster.Framebuffer {
	return r.framebuffer
}

// Render draws every visible mesh of s as seen by camera, then the overlays.
func (r *Renderer) Render(s *scene.Scene, camera *components.Camera, overlays ...Overlay) error {
	r.framebuffer.Clear(r.clearColour)
	if s != nil && camera != nil {
		view := camera.GetView()
		projection := camera.GetProjection()
		for _, node := range s.Meshes() {
			r.framebuffer.Draw(raster.DrawCall{
				Geometry: node.Geometry,
				Material: node.Material,
				Model:    node.GetWorld(),
			}, view, projection)
		}
	}
	for _, o := range overlays {
		o.DrawOverlay(r.framebuffer.Color, r.pixelRatio)
	}
	if err := r.backend.Present(r.framebuffer); err != nil {
		return fmt.Errorf("failed to present frame %d: %w", r.frameNumber, err)
	}
	r.frameNumber++
	return nil
}
