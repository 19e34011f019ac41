package components

import (
	"github.com/spaghettifunk/quadn/engine/math"
)

/**
 * @brief Represents a perspective camera looking at a target point.
 * Ideally, these are created and managed by the camera system.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/** @brief The point the camera looks at. */
	Target math.Vec3
	/** @brief The world up direction. */
	Up math.Vec3
	/** @brief Vertical field of view in degrees. */
	Fov float32
	/** @brief Viewport width divided by height. */
	Aspect float32
	Near   float32
	Far    float32
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool

	ViewMatrix       math.Mat4
	ProjectionMatrix math.Mat4
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	camera := NewCamera()
	camera.Fov = fov
	camera.Aspect = aspect
	camera.Near = near
	camera.Far = far
	camera.UpdateProjectionMatrix()
	return camera
}

func (c *Camera) Reset() {
	c.Position = math.NewVec3Zero()
	c.Target = math.NewVec3Zero()
	c.Up = math.NewVec3Up()
	c.Fov = 50
	c.Aspect = 1
	c.Near = 0.1
	c.Far = 2000
	c.IsDirty = true
	c.ViewMatrix = math.NewMat4Identity()
	c.UpdateProjectionMatrix()
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// SetAspect changes the aspect ratio and rebuilds the projection matrix.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

func (c *Camera) UpdateProjectionMatrix() {
	c.ProjectionMatrix = math.NewMat4Perspective(math.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, c.Up)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// GetProjection returns the matrix built by the last UpdateProjectionMatrix.
func (c *Camera) GetProjection() math.Mat4 {
	return c.ProjectionMatrix
}

// Forward returns the unit direction from the camera to its target.
func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the camera's right axis in world space.
func (c *Camera) Right() math.Vec3 {
	view := c.GetView()
	return math.NewVec3(view.Data[0], view.Data[4], view.Data[8]).Normalize()
}

// CameraUp returns the camera's up axis in world space.
func (c *Camera) CameraUp() math.Vec3 {
	view := c.GetView()
	return math.NewVec3(view.Data[1], view.Data[5], view.Data[9]).Normalize()
}
