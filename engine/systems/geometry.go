package systems

import (
	"fmt"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/font"
	"github.com/spaghettifunk/quadn/engine/geometry"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

type geometryReference struct {
	geometry       *metadata.Geometry
	referenceCount uint32
}

/**
 * @brief Builds geometries once and hands out the same instance to every
 * mesh that asks for it by name.
 */
type GeometrySystem struct {
	geometries map[string]*geometryReference
}

func NewGeometrySystem() *GeometrySystem {
	return &GeometrySystem{
		geometries: make(map[string]*geometryReference),
	}
}

func (gs *GeometrySystem) Shutdown() error {
	gs.geometries = make(map[string]*geometryReference)
	return nil
}

/**
 * @brief Acquires extruded text geometry, centered on the origin. The key
 * covers the text, the font family and every option, so different
 * settings never share an instance.
 */
func (gs *GeometrySystem) AcquireText(text string, f *font.Font, opts geometry.TextOptions) (*metadata.Geometry, error) {
	if f == nil {
		return nil, fmt.Errorf("func GeometrySystem.AcquireText - font is required: %w", core.ErrNotInitialized)
	}
	key := fmt.Sprintf("text:%s:%s:%+v", text, f.Family, opts)
	if ref, ok := gs.geometries[key]; ok {
		ref.referenceCount++
		return ref.geometry, nil
	}
	g, err := geometry.NewTextGeometry(text, f, opts)
	if err != nil {
		return nil, err
	}
	g.CenterOnOrigin()
	gs.geometries[key] = &geometryReference{geometry: g, referenceCount: 1}
	core.LogDebug("Geometry '%s' built with %d triangles.", g.Name, g.TriangleCount())
	return g, nil
}

// Release drops one reference to g; the geometry is forgotten when none are left.
func (gs *GeometrySystem) Release(g *metadata.Geometry) {
	for key, ref := range gs.geometries {
		if ref.geometry != g {
			continue
		}
		ref.referenceCount--
		if ref.referenceCount == 0 {
			delete(gs.geometries, key)
		}
		return
	}
}

func (gs *GeometrySystem) Count() int {
	return len(gs.geometries)
}
