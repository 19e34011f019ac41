package systems

import (
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

type materialReference struct {
	material       *metadata.Material
	referenceCount uint32
}

type MaterialSystem struct {
	materials       map[string]*materialReference
	defaultMaterial *metadata.Material
}

func NewMaterialSystem(ts *TextureSystem) *MaterialSystem {
	return &MaterialSystem{
		materials:       make(map[string]*materialReference),
		defaultMaterial: metadata.NewMatcapMaterial(DefaultMaterialName, ts.GetDefault()),
	}
}

func (ms *MaterialSystem) Shutdown() error {
	ms.materials = make(map[string]*materialReference)
	return nil
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.defaultMaterial
}

/**
 * @brief Acquires the matcap material with the given name, creating it
 * over matcap the first time. Later calls return the same material
 * whatever texture they pass.
 */
func (ms *MaterialSystem) AcquireMatcap(name string, matcap *metadata.Texture) *metadata.Material {
	if ref, ok := ms.materials[name]; ok {
		ref.referenceCount++
		return ref.material
	}
	if matcap == nil {
		core.LogWarn("Material '%s' has no matcap, using the default texture.", name)
		matcap = ms.defaultMaterial.Matcap.Texture
	}
	m := metadata.NewMatcapMaterial(name, matcap)
	ms.materials[name] = &materialReference{material: m, referenceCount: 1}
	return m
}

func (ms *MaterialSystem) Release(name string) {
	ref, ok := ms.materials[name]
	if !ok {
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		delete(ms.materials, name)
	}
}
