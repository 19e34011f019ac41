package engine

import (
	"github.com/spaghettifunk/quadn/engine/core"
)

// Window is the surface the engine runs in.
type Window interface {
	Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error
	Shutdown() error
	PumpMessages()
	ShouldClose() bool
	// WindowSize is in screen coordinates.
	WindowSize() (uint32, uint32)
	PixelRatio() float32
}

/**
 * @brief A window that never shows anything, used to render frames
 * offscreen. It never closes on its own.
 */
type HeadlessWindow struct {
	width      uint32
	height     uint32
	pixelRatio float32
}

func NewHeadlessWindow(pixelRatio float32) *HeadlessWindow {
	return &HeadlessWindow{pixelRatio: pixelRatio}
}

func (hw *HeadlessWindow) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	hw.width, hw.height = width, height
	core.LogInfo("Headless window '%s' started (%dx%d @%.2fx).", applicationName, width, height, hw.pixelRatio)
	return nil
}

func (hw *HeadlessWindow) Shutdown() error {
	return nil
}

func (hw *HeadlessWindow) PumpMessages() {}

func (hw *HeadlessWindow) ShouldClose() bool {
	return false
}

func (hw *HeadlessWindow) WindowSize() (uint32, uint32) {
	return hw.width, hw.height
}

func (hw *HeadlessWindow) PixelRatio() float32 {
	return hw.pixelRatio
}

// Resize behaves like a window resized by the user.
func (hw *HeadlessWindow) Resize(width, height uint32) {
	hw.width, hw.height = width, height
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{
			WindowWidth:       width,
			WindowHeight:      height,
			FramebufferWidth:  uint32(float32(width) * hw.pixelRatio),
			FramebufferHeight: uint32(float32(height) * hw.pixelRatio),
			PixelRatio:        hw.pixelRatio,
		},
	})
}
