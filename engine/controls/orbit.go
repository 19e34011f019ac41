package controls

import (
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/math"
	"github.com/spaghettifunk/quadn/engine/renderer/components"
)

// Keeps the polar angle away from the poles, where the view would flip.
const polarEpsilon float32 = 0.000001

type orbitState int

const (
	orbitStateNone orbitState = iota
	orbitStateRotate
	orbitStatePan
)

// spherical coordinates around the y axis. Phi is measured from +Y,
// theta around Y starting at +Z.
type spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

func sphericalFromVec3(v math.Vec3) spherical {
	s := spherical{Radius: v.Length()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math.Atan2(v.X, v.Z)
	s.Phi = math.Acos(math.Clamp(v.Y/s.Radius, -1, 1))
	return s
}

func (s spherical) toVec3() math.Vec3 {
	sinPhiRadius := math.Sin(s.Phi) * s.Radius
	return math.NewVec3(
		sinPhiRadius*math.Sin(s.Theta),
		math.Cos(s.Phi)*s.Radius,
		sinPhiRadius*math.Cos(s.Theta),
	)
}

/**
 * @brief Orbits a perspective camera around a target point.
 * Left drag rotates, right or middle drag pans and the wheel dollies.
 * With damping enabled, Update must run every frame so the motion
 * keeps easing out after the input stops.
 */
type OrbitControls struct {
	Camera *components.Camera
	/** @brief The point the camera orbits around. */
	Target math.Vec3

	Enabled       bool
	EnableDamping bool
	/** @brief Fraction of the pending motion applied per update when damping. */
	DampingFactor float32

	EnableRotate bool
	RotateSpeed  float32
	EnableZoom   bool
	ZoomSpeed    float32
	EnablePan    bool
	PanSpeed     float32
	// Pan in the camera's screen plane instead of the plane orthogonal to Up.
	ScreenSpacePanning bool

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32
	MaxPolarAngle float32

	// Size of the element receiving pointer input, in screen coordinates.
	viewportWidth  float32
	viewportHeight float32

	state          orbitState
	pointer        math.Vec2
	sphericalDelta spherical
	scale          float32
	panOffset      math.Vec3

	// Saved by SaveState, restored by Reset.
	target0   math.Vec3
	position0 math.Vec3
}

func NewOrbitControls(camera *components.Camera, viewportWidth, viewportHeight float32) *OrbitControls {
	oc := &OrbitControls{
		Camera:             camera,
		Target:             camera.Target,
		Enabled:            true,
		DampingFactor:      0.05,
		EnableRotate:       true,
		RotateSpeed:        1,
		EnableZoom:         true,
		ZoomSpeed:          1,
		EnablePan:          true,
		PanSpeed:           1,
		ScreenSpacePanning: true,
		MinDistance:        0,
		MaxDistance:        math.K_INFINITY,
		MinPolarAngle:      0,
		MaxPolarAngle:      math.K_PI,
		scale:              1,
	}
	oc.SetViewportSize(viewportWidth, viewportHeight)
	oc.SaveState()
	oc.Update()
	return oc
}

// SetViewportSize records the size pointer deltas are measured against.
func (oc *OrbitControls) SetViewportSize(width, height float32) {
	oc.viewportWidth = width
	oc.viewportHeight = height
}

/**
 * @brief Registers the controls with the core event system. Listeners
 * registered earlier (such as on-screen buttons) see clicks first and can
 * consume them.
 */
func (oc *OrbitControls) Listen() {
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, oc, oc.onButtonPressed)
	core.EventRegister(core.EVENT_CODE_BUTTON_RELEASED, oc, oc.onButtonReleased)
	core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, oc, oc.onMouseMoved)
	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, oc, oc.onMouseWheel)
}

// Dispose stops listening for input.
func (oc *OrbitControls) Dispose() {
	core.EventUnregister(core.EVENT_CODE_BUTTON_PRESSED, oc)
	core.EventUnregister(core.EVENT_CODE_BUTTON_RELEASED, oc)
	core.EventUnregister(core.EVENT_CODE_MOUSE_MOVED, oc)
	core.EventUnregister(core.EVENT_CODE_MOUSE_WHEEL, oc)
	oc.state = orbitStateNone
}

func (oc *OrbitControls) SaveState() {
	oc.target0 = oc.Target
	oc.position0 = oc.Camera.GetPosition()
}

// Reset returns to the last saved state and drops any pending motion.
func (oc *OrbitControls) Reset() {
	oc.Target = oc.target0
	oc.Camera.SetPosition(oc.position0)
	oc.sphericalDelta = spherical{}
	oc.panOffset = math.NewVec3Zero()
	oc.scale = 1
	oc.state = orbitStateNone
	oc.Update()
}

func (oc *OrbitControls) Distance() float32 {
	return oc.Camera.GetPosition().Distance(oc.Target)
}

// PolarAngle returns the angle between the camera offset and +Y.
func (oc *OrbitControls) PolarAngle() float32 {
	return sphericalFromVec3(oc.Camera.GetPosition().Sub(oc.Target)).Phi
}

// AzimuthalAngle returns the angle of the camera offset around Y, from +Z.
func (oc *OrbitControls) AzimuthalAngle() float32 {
	return sphericalFromVec3(oc.Camera.GetPosition().Sub(oc.Target)).Theta
}

/**
 * @brief Applies pending rotation, pan and dolly to the camera.
 * @returns true if the camera moved.
 */
func (oc *OrbitControls) Update() bool {
	position := oc.Camera.GetPosition()
	offset := position.Sub(oc.Target)
	s := sphericalFromVec3(offset)

	if oc.EnableDamping {
		s.Theta += oc.sphericalDelta.Theta * oc.DampingFactor
		s.Phi += oc.sphericalDelta.Phi * oc.DampingFactor
	} else {
		s.Theta += oc.sphericalDelta.Theta
		s.Phi += oc.sphericalDelta.Phi
	}

	s.Phi = math.Clamp(s.Phi, oc.MinPolarAngle, oc.MaxPolarAngle)
	s.Phi = math.Clamp(s.Phi, polarEpsilon, math.K_PI-polarEpsilon)

	if oc.EnableDamping {
		oc.Target = oc.Target.Add(oc.panOffset.MulScalar(oc.DampingFactor))
	} else {
		oc.Target = oc.Target.Add(oc.panOffset)
	}

	s.Radius = math.Clamp(s.Radius*oc.scale, oc.MinDistance, oc.MaxDistance)

	newPosition := oc.Target.Add(s.toVec3())
	oc.Camera.SetPosition(newPosition)
	oc.Camera.LookAt(oc.Target)

	if oc.EnableDamping {
		oc.sphericalDelta.Theta *= 1 - oc.DampingFactor
		oc.sphericalDelta.Phi *= 1 - oc.DampingFactor
		oc.panOffset = oc.panOffset.MulScalar(1 - oc.DampingFactor)
	} else {
		oc.sphericalDelta = spherical{}
		oc.panOffset = math.NewVec3Zero()
	}
	oc.scale = 1

	return newPosition.Sub(position).LengthSquared() > polarEpsilon
}

// RotateLeft queues a rotation around the target's vertical axis.
func (oc *OrbitControls) RotateLeft(angle float32) {
	oc.sphericalDelta.Theta -= angle
}

// RotateUp queues a change of the polar angle.
func (oc *OrbitControls) RotateUp(angle float32) {
	oc.sphericalDelta.Phi -= angle
}

// DollyIn queues moving the camera closer. The distance is multiplied by scale, which is below 1.
func (oc *OrbitControls) DollyIn(scale float32) {
	oc.scale *= scale
}

// DollyOut queues moving the camera away. The distance is divided by scale.
func (oc *OrbitControls) DollyOut(scale float32) {
	oc.scale /= scale
}

func (oc *OrbitControls) zoomScale() float32 {
	return math.Pow(0.95, oc.ZoomSpeed)
}

/**
 * @brief Queues a pan by a pointer delta in screen coordinates. The target
 * moves so the point under the pointer follows it at the target distance.
 */
func (oc *OrbitControls) Pan(deltaX, deltaY float32) {
	if oc.viewportHeight <= 0 {
		return
	}
	offset := oc.Camera.GetPosition().Sub(oc.Target)
	// half of the fov is center to top of screen
	targetDistance := offset.Length() * math.Tan(math.DegToRad(oc.Camera.Fov)/2)

	left := oc.Camera.Right().MulScalar(-2 * deltaX * targetDistance / oc.viewportHeight)

	var up math.Vec3
	if oc.ScreenSpacePanning {
		up = oc.Camera.CameraUp()
	} else {
		up = oc.Camera.Up.Cross(oc.Camera.Right())
	}
	up = up.MulScalar(2 * deltaY * targetDistance / oc.viewportHeight)

	oc.panOffset = oc.panOffset.Add(left).Add(up)
}

func (oc *OrbitControls) onButtonPressed(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || !oc.Enabled {
		return false
	}
	switch me.Button {
	case core.BUTTON_LEFT:
		if !oc.EnableRotate {
			return false
		}
		oc.state = orbitStateRotate
	case core.BUTTON_RIGHT, core.BUTTON_MIDDLE:
		if !oc.EnablePan {
			return false
		}
		oc.state = orbitStatePan
	default:
		return false
	}
	oc.pointer = math.NewVec2(float32(me.PosX), float32(me.PosY))
	return false
}

func (oc *OrbitControls) onButtonReleased(context core.EventContext) bool {
	oc.state = orbitStateNone
	return false
}

func (oc *OrbitControls) onMouseMoved(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || !oc.Enabled || oc.state == orbitStateNone {
		return false
	}
	end := math.NewVec2(float32(me.PosX), float32(me.PosY))
	delta := end.Sub(oc.pointer)
	oc.pointer = end

	switch oc.state {
	case orbitStateRotate:
		if oc.viewportHeight <= 0 {
			return false
		}
		delta = delta.MulScalar(oc.RotateSpeed)
		oc.RotateLeft(math.K_PI_2 * delta.X / oc.viewportHeight)
		oc.RotateUp(math.K_PI_2 * delta.Y / oc.viewportHeight)
	case orbitStatePan:
		delta = delta.MulScalar(oc.PanSpeed)
		oc.Pan(delta.X, delta.Y)
	}
	if !oc.EnableDamping {
		oc.Update()
	}
	return false
}

func (oc *OrbitControls) onMouseWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || !oc.Enabled || !oc.EnableZoom || oc.state != orbitStateNone {
		return false
	}
	switch {
	case me.Scroll > 0:
		oc.DollyIn(oc.zoomScale())
	case me.Scroll < 0:
		oc.DollyOut(oc.zoomScale())
	}
	if !oc.EnableDamping {
		oc.Update()
	}
	return false
}
