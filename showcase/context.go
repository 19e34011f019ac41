package showcase

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/quadn/engine/config"
	"github.com/spaghettifunk/quadn/engine/controls"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
	"github.com/spaghettifunk/quadn/engine/scene"
	"github.com/spaghettifunk/quadn/engine/tween"
)

const (
	GroupName   = "group"
	LetterCount = 4
	// Applied when the configuration does not set a cap.
	DefaultMaxPixelRatio float32 = 2
)

var (
	ErrLettersBuilt    = errors.New("letters already built")
	ErrLettersNotBuilt = errors.New("letters not built yet")
)

type letterPlacement struct {
	name      string
	position  math.Vec3
	rotationY float32
}

// Starting layout: a square of letters, each facing outwards.
var letterLayout = [LetterCount]letterPlacement{
	{name: "n1", position: math.NewVec3(0, 0, 0), rotationY: 0},
	{name: "n2", position: math.NewVec3(0.17, 0, -0.17), rotationY: math.K_HALF_PI},
	{name: "n3", position: math.NewVec3(-0.17, 0, -0.17), rotationY: -math.K_HALF_PI},
	{name: "n4", position: math.NewVec3(0, 0, -0.34), rotationY: math.K_PI},
}

/** @brief Everything NewContext needs, normally taken from the configuration. */
type Options struct {
	// Viewport size in window units.
	Width  uint32
	Height uint32
	// Device pixels per window unit, as reported by the platform.
	DevicePixelRatio float32
	MaxPixelRatio    float32
	Camera           config.Camera
	Controls         config.Controls
}

func OptionsFromConfig(cfg *config.Config, width, height uint32, devicePixelRatio float32) Options {
	return Options{
		Width:            width,
		Height:           height,
		DevicePixelRatio: devicePixelRatio,
		MaxPixelRatio:    cfg.Renderer.MaxPixelRatio,
		Camera:           cfg.Camera,
		Controls:         cfg.Controls,
	}
}

// EffectivePixelRatio caps the device pixel ratio.
func EffectivePixelRatio(devicePixelRatio, maxRatio float32) float32 {
	if maxRatio <= 0 {
		maxRatio = DefaultMaxPixelRatio
	}
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	return min(devicePixelRatio, maxRatio)
}

/**
 * @brief The rendering context of the scene: camera, controls, renderer
 * surface and the scene graph with its letter group. Created once by
 * NewContext and released by Dispose.
 */
type Context struct {
	Scene    *scene.Scene
	Group    *scene.Node
	Letters  []*scene.Node
	Camera   *components.Camera
	Controls *controls.OrbitControls
	Renderer *renderer.Renderer
	Timeline *tween.Timeline

	width         uint32
	height        uint32
	maxPixelRatio float32
	overlays      []renderer.Overlay
}

/**
 * @brief Sets up the camera, the orbit controls and the renderer surface
 * for a viewport, and adds an empty letter group to a new scene.
 * If camera is nil a new one is created.
 */
func NewContext(r *renderer.Renderer, camera *components.Camera, opts Options) (*Context, error) {
	if r == nil {
		return nil, fmt.Errorf("scene context needs a renderer: %w", core.ErrNotInitialized)
	}
	if opts.Width == 0 || opts.Height == 0 {
		return nil, fmt.Errorf("scene context needs a non empty viewport, got %dx%d", opts.Width, opts.Height)
	}
	if camera == nil {
		camera = components.NewCamera()
	}
	camera.Fov = opts.Camera.Fov
	camera.Near = opts.Camera.Near
	camera.Far = opts.Camera.Far
	camera.SetAspect(float32(opts.Width) / float32(opts.Height))
	camera.SetPosition(math.NewVec3(opts.Camera.Position[0], opts.Camera.Position[1], opts.Camera.Position[2]))
	camera.LookAt(math.NewVec3Zero())

	oc := controls.NewOrbitControls(camera, float32(opts.Width), float32(opts.Height))
	oc.EnableDamping = opts.Controls.EnableDamping
	oc.DampingFactor = opts.Controls.DampingFactor
	oc.EnableRotate = opts.Controls.EnableRotate
	oc.RotateSpeed = opts.Controls.RotateSpeed
	oc.EnableZoom = opts.Controls.EnableZoom
	oc.ZoomSpeed = opts.Controls.ZoomSpeed
	oc.EnablePan = opts.Controls.EnablePan
	oc.PanSpeed = opts.Controls.PanSpeed
	oc.ScreenSpacePanning = opts.Controls.ScreenSpacePan
	oc.MinDistance = opts.Controls.MinDistance
	oc.MaxDistance = opts.Controls.MaxDistance

	c := &Context{
		Scene:         scene.New(),
		Group:         scene.NewGroup(GroupName),
		Camera:        camera,
		Controls:      oc,
		Renderer:      r,
		width:         opts.Width,
		height:        opts.Height,
		maxPixelRatio: opts.MaxPixelRatio,
	}
	c.Scene.Add(c.Group)

	if err := r.SetSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if err := r.SetPixelRatio(EffectivePixelRatio(opts.DevicePixelRatio, opts.MaxPixelRatio)); err != nil {
		return nil, err
	}
	return c, nil
}

// Listen connects the orbit controls to the input events.
func (c *Context) Listen() {
	c.Controls.Listen()
}

/**
 * @brief Adds the four letters to the group. Every letter shares the
 * given geometry and material.
 */
func (c *Context) BuildLetters(geometry *metadata.Geometry, material *metadata.Material) ([]*scene.Node, error) {
	if geometry == nil || material == nil {
		return nil, errors.New("letters need a geometry and a material")
	}
	if len(c.Letters) > 0 {
		return nil, ErrLettersBuilt
	}
	letters := make([]*scene.Node, 0, LetterCount)
	for _, p := range letterLayout {
		n := scene.NewMesh(p.name, geometry, material)
		n.SetPositionRotationScale(p.position, math.NewVec3(0, p.rotationY, 0), math.NewVec3One())
		letters = append(letters, n)
	}
	c.Group.Add(letters...)
	c.Letters = letters
	core.LogDebug("Built %d letters sharing geometry '%s' and material '%s'.", len(letters), geometry.Name, material.Name)
	return letters, nil
}

// Animate builds the timeline of choreography against the scene. The
// timeline starts playing on the next update.
func (c *Context) Animate(choreography *tween.Choreography) (*tween.Timeline, error) {
	if len(c.Letters) == 0 {
		return nil, ErrLettersNotBuilt
	}
	tl, err := choreography.Build(c.Scene.Property)
	if err != nil {
		return nil, fmt.Errorf("could not build timeline: %w", err)
	}
	c.Timeline = tl
	return tl, nil
}

/**
 * @brief Follows a viewport change: camera aspect, controls, renderer size
 * and pixel ratio. A zero sized viewport is ignored.
 */
func (c *Context) Resize(width, height uint32, devicePixelRatio float32) error {
	if width == 0 || height == 0 {
		return nil
	}
	c.width, c.height = width, height
	c.Camera.SetAspect(float32(width) / float32(height))
	c.Controls.SetViewportSize(float32(width), float32(height))
	if err := c.Renderer.SetSize(width, height); err != nil {
		return err
	}
	return c.Renderer.SetPixelRatio(EffectivePixelRatio(devicePixelRatio, c.maxPixelRatio))
}

func (c *Context) Size() (uint32, uint32) {
	return c.width, c.height
}

// AddOverlay draws o on top of every following frame.
func (c *Context) AddOverlay(o renderer.Overlay) {
	c.overlays = append(c.overlays, o)
}

// Frame updates the controls and renders the scene once.
func (c *Context) Frame() error {
	c.Controls.Update()
	return c.Renderer.Render(c.Scene, c.Camera, c.overlays...)
}

// Dispose stops input handling and empties the scene.
func (c *Context) Dispose() {
	c.Controls.Dispose()
	if c.Timeline != nil {
		c.Timeline.Pause()
	}
	for _, l := range c.Letters {
		c.Group.Remove(l)
	}
	c.Letters = nil
	c.Scene.Root.Remove(c.Group)
	c.overlays = nil
}
