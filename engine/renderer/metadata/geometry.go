package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/quadn/engine/math"
)

/**
 * @brief Represents actual geometry in the world: indexed triangles
 * with per-vertex position, normal and uv.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uuid.UUID
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief The geometry name. */
	Name     string
	Vertices []math.Vertex3D
	Indices  []uint32
}

func NewGeometry(name string, vertices []math.Vertex3D, indices []uint32) *Geometry {
	g := &Geometry{
		ID:       uuid.New(),
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	g.ComputeBoundingBox()
	return g
}

func (g *Geometry) ComputeBoundingBox() {
	g.Extents = math.GeometryExtents(g.Vertices)
	g.Center = g.Extents.Center()
}

// CenterOnOrigin translates the vertices so the bounding box center sits at the origin.
func (g *Geometry) CenterOnOrigin() {
	g.ComputeBoundingBox()
	offset := g.Center
	for i := range g.Vertices {
		g.Vertices[i].Position = g.Vertices[i].Position.Sub(offset)
	}
	g.Generation++
	g.ComputeBoundingBox()
}

func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}
