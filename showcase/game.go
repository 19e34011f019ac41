package showcase

import (
	"context"
	"fmt"

	"github.com/spaghettifunk/quadn/engine"
	"github.com/spaghettifunk/quadn/engine/config"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/geometry"
	"github.com/spaghettifunk/quadn/engine/remote"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/systems"
	"github.com/spaghettifunk/quadn/engine/tween"
	"github.com/spaghettifunk/quadn/engine/ui"
)

const (
	CameraName       = "world"
	MaterialName     = "letters"
	AnimationName    = "letters"
	commandQueueSize = 32
)

// Keyboard bindings of the playback commands.
var keyBindings = map[core.KeyCode]Command{
	core.KEY_P:         CommandPlay,
	core.KEY_SPACE:     CommandPause,
	core.KEY_R:         CommandResume,
	core.KEY_V:         CommandReverse,
	core.KEY_BACKSPACE: CommandRestart,
}

/**
 * @brief The quad N scene as an engine game: four extruded letters with a
 * matcap material, spun by a looping timeline that the keyboard, the
 * button bar and the remote control can drive.
 */
type Showcase struct {
	*engine.Game

	parent   context.Context
	scene    *Context
	bar      *ui.ButtonBar
	commands *CommandQueue
	state    StateSnapshot
	last     tween.State

	geometry *metadata.Geometry
	material *metadata.Material

	remote       *remote.Server
	cancelRemote context.CancelFunc
	remoteDone   chan error
}

// New creates the game. The remote control, when configured, lives until
// ctx is done or the game shuts down.
func New(ctx context.Context, cfg *config.Config) *Showcase {
	s := &Showcase{
		parent:   ctx,
		commands: NewCommandQueue(commandQueueSize),
	}
	s.Game = &engine.Game{
		Config:       cfg,
		State:        s,
		FnInitialize: s.Initialize,
		FnUpdate:     s.Update,
		FnRender:     s.Render,
		FnOnResize:   s.OnResize,
		FnShutdown:   s.Shutdown,
	}
	return s
}

func (s *Showcase) Initialize() error {
	cfg := s.Config
	sm := s.SystemManager

	camera, err := sm.Cameras().Acquire(CameraName)
	if err != nil {
		return err
	}
	opts := OptionsFromConfig(cfg, cfg.Application.Width, cfg.Application.Height, cfg.Application.DevicePixelRatio)
	sc, err := NewContext(s.Renderer, camera, opts)
	if err != nil {
		return err
	}
	s.scene = sc

	// The button bar must see clicks before the orbit controls do.
	if cfg.Playback.Enabled {
		if err := s.bindPlayback(); err != nil {
			return err
		}
	}
	sc.Listen()

	if err := s.loadAssets(); err != nil {
		return err
	}

	if cfg.Remote.Listen != "" {
		s.startRemote(cfg.Remote.Listen)
	}
	return nil
}

func (s *Showcase) bindPlayback() error {
	var font ui.LabelFont
	if name := s.Config.Assets.HUDFont; name != "" {
		bf, err := s.SystemManager.Fonts().AcquireBitmap(name)
		if err != nil {
			core.LogWarn("HUD font '%s' unavailable, using the built-in one: %s", name, err)
		} else {
			font = ui.NewBitmapLabelFont(bf)
		}
	}
	s.bar = ui.NewButtonBar(font)
	for _, c := range Commands {
		c := c
		s.bar.Add("#"+string(c), string(c), func() { s.enqueue(c) })
	}
	s.bar.Listen()
	s.scene.AddOverlay(s.bar)

	if !core.EventRegister(core.EVENT_CODE_KEY_PRESSED, s, s.onKey) {
		return fmt.Errorf("could not bind playback keys")
	}
	return nil
}

func (s *Showcase) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	c, ok := keyBindings[ke.KeyCode]
	if !ok {
		return false
	}
	s.enqueue(c)
	return true
}

func (s *Showcase) enqueue(c Command) {
	if err := s.commands.Enqueue(c); err != nil {
		core.LogWarn(err.Error())
	}
}

/**
 * @brief Loads the matcap, the font and the optional choreography on the
 * job system. The letters are built once all of them arrived.
 */
func (s *Showcase) loadAssets() error {
	cfg := s.Config
	var matcap, typeface, choreography *metadata.Resource

	requests := []systems.ResourceRequest{
		{Name: cfg.Assets.Matcap, OnLoad: func(r *metadata.Resource) { matcap = r }},
		{Name: cfg.Assets.Font, OnLoad: func(r *metadata.Resource) { typeface = r }},
	}
	if cfg.Assets.Choreography != "" {
		requests = append(requests, systems.ResourceRequest{
			Name:   cfg.Assets.Choreography,
			OnLoad: func(r *metadata.Resource) { choreography = r },
		})
	}

	return s.SystemManager.Resources().LoadAll(requests, func(err error) {
		if err != nil {
			// already reported by LoadAll
			return
		}
		if err := s.buildScene(matcap, typeface, choreography); err != nil {
			core.LogError("could not build the letters: %s", err)
		}
	})
}

func (s *Showcase) buildScene(matcap, typeface, choreography *metadata.Resource) error {
	sm := s.SystemManager

	texture, err := sm.Textures().Register(matcap, nil, metadata.ColorSpaceSRGB)
	if err != nil {
		return err
	}
	if err := sm.Fonts().Register(typeface); err != nil {
		return err
	}
	font, err := sm.Fonts().Acquire(typeface.Name)
	if err != nil {
		return err
	}

	geom, err := sm.Geometries().AcquireText(s.Config.Text.Content, font, TextOptionsFromConfig(s.Config.Text))
	if err != nil {
		return err
	}
	s.geometry = geom
	s.material = sm.Materials().AcquireMatcap(MaterialName, texture)

	if _, err := s.scene.BuildLetters(s.geometry, s.material); err != nil {
		return err
	}

	c := QuadChoreography()
	if choreography != nil {
		loaded, ok := choreography.Data.(*tween.Choreography)
		if !ok {
			return fmt.Errorf("resource `%s` is not a choreography", choreography.Name)
		}
		c = loaded
	}
	tl, err := s.scene.Animate(c)
	if err != nil {
		return err
	}
	if err := sm.Animations().Register(AnimationName, tl); err != nil {
		return err
	}
	s.state.Store(tl.State())
	core.LogInfo("Scene ready: %d letters, %d triangles each, %.2fs cycle.",
		len(s.scene.Letters), geom.TriangleCount(), tl.CycleDuration())
	return nil
}

// TextOptionsFromConfig maps the text section onto the extrusion options.
func TextOptionsFromConfig(t config.Text) geometry.TextOptions {
	opts := geometry.DefaultTextOptions()
	opts.Size = t.Size
	opts.Depth = t.Depth
	opts.CurveSegments = t.CurveSegments
	opts.BevelEnabled = t.BevelEnabled
	opts.BevelThickness = t.BevelThickness
	opts.BevelSize = t.BevelSize
	opts.BevelOffset = t.BevelOffset
	opts.BevelSegments = t.BevelSegments
	return opts
}

func (s *Showcase) startRemote(addr string) {
	ctx, cancel := context.WithCancel(s.parent)
	s.remote = remote.NewServer(addr, s)
	s.cancelRemote = cancel
	s.remoteDone = make(chan error, 1)
	go func() {
		s.remoteDone <- s.remote.Run(ctx)
	}()
}

func (s *Showcase) Update(deltaTime float64) error {
	s.commands.Drain(func(c Command) {
		// no timeline until the assets are loaded
		var p Playback
		if s.scene.Timeline != nil {
			p = s.scene.Timeline
		}
		if err := Dispatch(p, c); err != nil {
			core.LogWarn("%s", err)
			return
		}
		if s.Config.Playback.DebugLogging {
			core.LogInfo("playback: %s", c)
		}
	})

	s.SystemManager.Animations().Update(deltaTime)

	if tl := s.scene.Timeline; tl != nil {
		st := tl.State()
		if s.Config.Playback.DebugLogging && stateChanged(s.last, st) {
			core.LogInfo("timeline: iteration %d, paused %t, reversed %t", st.Iteration, st.Paused, st.Reversed)
		}
		s.last = st
		s.state.Store(st)
	}
	return nil
}

func stateChanged(a, b tween.State) bool {
	return a.Iteration != b.Iteration || a.Paused != b.Paused || a.Reversed != b.Reversed
}

func (s *Showcase) Render(deltaTime float64) error {
	return s.scene.Frame()
}

func (s *Showcase) OnResize(width uint32, height uint32, pixelRatio float32) error {
	if s.scene == nil {
		return nil
	}
	return s.scene.Resize(width, height, pixelRatio)
}

func (s *Showcase) Shutdown() error {
	if s.cancelRemote != nil {
		s.cancelRemote()
		if err := <-s.remoteDone; err != nil {
			core.LogError("remote control: %s", err)
		}
		s.cancelRemote = nil
	}
	if s.bar != nil {
		s.bar.Dispose()
		core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, s)
	}
	if s.scene == nil {
		return nil
	}
	s.SystemManager.Animations().Remove(AnimationName)
	s.scene.Dispose()
	if s.geometry != nil {
		s.SystemManager.Geometries().Release(s.geometry)
		s.SystemManager.Materials().Release(MaterialName)
	}
	s.SystemManager.Cameras().Release(CameraName)
	return nil
}

// Scene returns the rendering context, nil before Initialize.
func (s *Showcase) Scene() *Context {
	return s.scene
}

// Submit queues a playback command for the next frame. Safe to call from
// any goroutine. Commands are refused until the letters are animated.
func (s *Showcase) Submit(command string) error {
	c, err := ParseCommand(command)
	if err != nil {
		return err
	}
	if _, ready := s.state.Load(); !ready {
		return fmt.Errorf("no timeline to %s yet: %w", c, core.ErrNotInitialized)
	}
	return s.commands.Enqueue(c)
}

// Snapshot returns the timeline state as of the last frame.
func (s *Showcase) Snapshot() (tween.State, bool) {
	return s.state.Load()
}

func (s *Showcase) Commands() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = string(c)
	}
	return names
}
