package renderer

import "github.com/spaghettifunk/quadn/engine/renderer/raster"

// Backend puts finished frames on a surface.
type Backend interface {
	Initialize(appName string, width, height uint32) error
	// Resized receives the drawing buffer size in pixels.
	Resized(width, height uint32) error
	Present(frame *raster.Framebuffer) error
	Shutdown() error
}

type RendererType uint8

const (
	Vulkan RendererType = iota
	Offscreen
)

func (t RendererType) String() string {
	switch t {
	case Vulkan:
		return "vulkan"
	case Offscreen:
		return "offscreen"
	default:
		return "unknown"
	}
}
