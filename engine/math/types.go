package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Matrices are row-major and multiply row vectors: v' = v * M, so the
 * translation lives in elements 12, 13 and 14.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief Represents the extents of a 2d object.
 */
type Extents2D struct {
	/** @brief The minimum extents of the object. */
	Min Vec2
	/** @brief The maximum extents of the object. */
	Max Vec2
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief Represents a single vertex in 3D space.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The normal of the vertex. */
	Normal Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. Rotation is stored as Euler angles in
 * radians, applied in X, Y, Z order.
 */
type Transform struct {
	/** @brief The position relative to the parent. */
	Position Vec3
	/** @brief The Euler rotation relative to the parent. */
	Rotation Vec3
	/** @brief The scale relative to the parent. */
	Scale Vec3
	/** @brief A pointer to a parent transform if one is assigned. Can also be nil. */
	Parent *Transform

	// Inputs used the last time the local matrix was built. Fields are
	// written directly by the animation code, so staleness is detected by
	// comparison instead of a dirty flag.
	cachedPosition Vec3
	cachedRotation Vec3
	cachedScale    Vec3
	cached         bool
	local          Mat4
}
