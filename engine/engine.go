package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/spaghettifunk/quadn/engine/assets"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer"
	"github.com/spaghettifunk/quadn/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released everything
	EngineStageShutdown
)

const (
	// Step used instead of wall time when rendering headless.
	HeadlessFrameTime float64 = 1.0 / 60.0
	// How long a suspended engine sleeps between looking at the window again.
	suspendedPollInterval = 50 * time.Millisecond
	// How often frame metrics are logged at debug level, in seconds.
	metricsLogInterval float64 = 5
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	window        Window
	backend       renderer.Backend
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	lastMetrics   float64

	// Fixed frame time, zero to use the wall clock.
	fixedDelta float64
	// Stop after this many frames, zero to run until told to quit.
	maxFrames  uint64
	frameCount uint64
}

/**
 * @brief Creates an engine running the game in the window, presenting
 * frames through the backend.
 */
func New(g *Game, window Window, backend renderer.Backend) (*Engine, error) {
	if g == nil || g.Config == nil {
		return nil, fmt.Errorf("engine needs a game with a configuration: %w", core.ErrNotInitialized)
	}
	if window == nil || backend == nil {
		return nil, fmt.Errorf("engine needs a window and a renderer backend: %w", core.ErrNotInitialized)
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		window:       window,
		backend:      backend,
		assetManager: am,
		isRunning:    true,
		isSuspended:  false,
		width:        g.Config.Application.Width,
		height:       g.Config.Application.Height,
	}
	if _, headless := window.(*HeadlessWindow); headless {
		e.fixedDelta = HeadlessFrameTime
		e.maxFrames = g.Config.Application.Frames
	}
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.Config

	if err := core.LogSetLevel(cfg.Application.LogLevel); err != nil {
		return err
	}

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.window.Startup(cfg.Application.Name,
		cfg.Application.PosX,
		cfg.Application.PosY,
		cfg.Application.Width,
		cfg.Application.Height); err != nil {
		return err
	}
	if w, h := e.window.WindowSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(cfg.Assets.Dir, cfg.Assets.Watch); err != nil {
		return err
	}
	sm, err := systems.NewSystemManager(e.assetManager, systems.SystemManagerConfig{
		QueueSize:    64,
		DebugLogging: cfg.Playback.DebugLogging,
	})
	if err != nil {
		return err
	}
	e.systemManager = sm

	cc := cfg.Renderer.ClearColor
	e.renderer = renderer.New(e.backend, math.NewVec4(cc[0], cc[1], cc[2], cc[3]))
	if err := e.renderer.Initialize(cfg.Application.Name, e.width, e.height); err != nil {
		return err
	}

	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.Renderer = e.renderer

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height, e.window.PixelRatio()); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

/**
 * @brief Runs the frame loop until the window closes, the quit event is
 * fired, ctx is done or, headless, the configured frame count is reached.
 */
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running: %w", core.ErrNotInitialized)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("Stop requested, shutting down.")
			e.isRunning = false
			continue
		default:
		}

		e.window.PumpMessages()
		if e.window.ShouldClose() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			time.Sleep(suspendedPollInterval)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		if e.fixedDelta > 0 {
			delta = e.fixedDelta
		}
		frameStartTime := time.Now()

		// Job completions and asset reloads land before the game sees the frame.
		e.systemManager.Update()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down.")
			e.isRunning = false
			return fmt.Errorf("game update failed: %w", err)
		}

		// Call the game's render routine.
		if err := e.gameInstance.FnRender(delta); err != nil {
			core.LogError("Game render failed, shutting down.")
			e.isRunning = false
			return fmt.Errorf("game render failed: %w", err)
		}

		e.metrics.Update(time.Since(frameStartTime).Seconds())
		if currentTime-e.lastMetrics >= metricsLogInterval {
			fps, frameTime := e.metrics.Frame()
			core.LogDebug("%.1f fps, %.2f ms per frame", fps, frameTime)
			e.lastMetrics = currentTime
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		core.InputUpdate(delta)

		// Update last time
		e.lastTime = currentTime

		e.frameCount++
		if e.maxFrames > 0 && e.frameCount >= e.maxFrames {
			core.LogInfo("Rendered %d frames, stopping.", e.frameCount)
			e.isRunning = false
		}
	}

	return nil
}

// Shutdown releases the game first, then every subsystem in reverse order
// of creation.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	started := e.currentStage >= EngineStageInitialized
	e.currentStage = EngineStageShuttingDown
	if started && e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err)
		}
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			return err
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.window.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// FrameCount is the number of frames rendered by Run.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

// IsSuspended reports whether the loop is waiting for the window to be restored.
func (e *Engine) IsSuspended() bool {
	return e.isSuspended
}

// GetFramebufferSize returns the width and height (in this order)
// of the window in screen coordinates.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Handle minimization
	if width == 0 || height == 0 {
		if !e.isSuspended {
			core.LogInfo("Window minimized, suspending application.")
			e.isSuspended = true
		}
		return false
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
		// The clock kept running while suspended.
		e.clock.Update()
		e.lastTime = e.clock.Elapsed()
	}

	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d @%.2fx", width, height, se.PixelRatio)
	if err := e.gameInstance.FnOnResize(width, height, se.PixelRatio); err != nil {
		core.LogError(err.Error())
	}
	return false
}
