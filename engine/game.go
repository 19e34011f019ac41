package engine

import (
	"github.com/spaghettifunk/quadn/engine/config"
	"github.com/spaghettifunk/quadn/engine/renderer"
	"github.com/spaghettifunk/quadn/engine/systems"
)

/**
 * @brief The callbacks a game hands to the engine. SystemManager and
 * Renderer are filled in by the engine before FnInitialize runs.
 */
type Game struct {
	Config        *config.Config
	SystemManager *systems.SystemManager
	Renderer      *renderer.Renderer
	State         interface{}
	FnInitialize  Initialize
	FnUpdate      Update
	FnRender      Render
	FnOnResize    OnResize
	FnShutdown    Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error

// OnResize receives the window size in screen coordinates and the device pixel ratio.
type OnResize func(width uint32, height uint32, pixelRatio float32) error
type Shutdown func() error
