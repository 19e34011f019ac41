package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/quadn/engine/math"
)

/** @brief Determines which faces of a mesh are drawn. */
type Side int

const (
	/** @brief Counter-clockwise faces are drawn. */
	SideFront Side = iota
	/** @brief Clockwise faces are drawn. */
	SideBack
	/** @brief Both sides are drawn. */
	SideDouble
)

/**
 * @brief A matcap material. Lighting is baked into the matcap texture,
 * sampled by the view-space normal, so no lights are needed.
 */
type Material struct {
	/** @brief The material id. */
	ID uuid.UUID
	/** @brief The material name. */
	Name string
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief Tint multiplied with the matcap sample. */
	Colour math.Vec4
	/** @brief The matcap texture map. */
	Matcap *TextureMap
	Side   Side
}

func NewMatcapMaterial(name string, matcap *Texture) *Material {
	return &Material{
		ID:     uuid.New(),
		Name:   name,
		Colour: math.NewVec4(1, 1, 1, 1),
		Matcap: &TextureMap{
			Texture: matcap,
			Filter:  TextureFilterModeLinear,
			RepeatU: TextureRepeatClampToEdge,
			RepeatV: TextureRepeatClampToEdge,
		},
		Side: SideFront,
	}
}
