package systems

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/renderer/metadata"
)

/** @brief The name of the default texture. */
const DEFAULT_TEXTURE_NAME string = "default"

type textureReference struct {
	texture        *metadata.Texture
	referenceCount uint32
	params         *metadata.ImageResourceParams
}

/**
 * @brief Keeps every texture loaded by name. When the asset manager
 * watches the asset directory, textures rewritten on disk are reloaded and
 * their pixels swapped in place, so materials keep their references.
 */
type TextureSystem struct {
	resources      *ResourceSystem
	textures       map[string]*textureReference
	defaultTexture *metadata.Texture
}

func NewTextureSystem(rs *ResourceSystem) (*TextureSystem, error) {
	if rs == nil {
		return nil, fmt.Errorf("func NewTextureSystem - resource system is required: %w", core.ErrNotInitialized)
	}
	return &TextureSystem{
		resources:      rs,
		textures:       make(map[string]*textureReference),
		defaultTexture: newDefaultTexture(),
	}, nil
}

// A 2x2 mid grey, so a missing matcap still shades as a flat surface.
func newDefaultTexture() *metadata.Texture {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	t := metadata.NewTexture(DEFAULT_TEXTURE_NAME, img)
	t.ColorSpace = metadata.ColorSpaceSRGB
	return t
}

func (ts *TextureSystem) Shutdown() error {
	ts.textures = make(map[string]*textureReference)
	return nil
}

func (ts *TextureSystem) GetDefault() *metadata.Texture {
	return ts.defaultTexture
}

/**
 * @brief Registers a texture created from an already loaded image
 * resource, or returns the existing one with its reference count
 * incremented.
 */
func (ts *TextureSystem) Register(res *metadata.Resource, params *metadata.ImageResourceParams, colorSpace metadata.ColorSpace) (*metadata.Texture, error) {
	if ref, ok := ts.textures[res.Name]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}
	img, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("resource `%s` is a %s, not an image", res.Name, res.Type)
	}
	t := metadata.NewTexture(res.Name, img.Pixels)
	t.ColorSpace = colorSpace
	ts.textures[res.Name] = &textureReference{
		texture:        t,
		referenceCount: 1,
		params:         params,
	}
	core.LogDebug("Texture '%s' registered (%dx%d).", res.Name, t.Width, t.Height)
	return t, nil
}

/**
 * @brief Acquires a texture by name, loading it synchronously the first
 * time.
 */
func (ts *TextureSystem) Acquire(name string, params *metadata.ImageResourceParams, colorSpace metadata.ColorSpace) (*metadata.Texture, error) {
	if name == DEFAULT_TEXTURE_NAME {
		core.LogWarn("TextureSystem.Acquire called for the default texture. Use GetDefault instead.")
		return ts.defaultTexture, nil
	}
	if ref, ok := ts.textures[name]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}
	res, err := ts.resources.Load(name, params)
	if err != nil {
		return nil, err
	}
	return ts.Register(res, params, colorSpace)
}

func (ts *TextureSystem) Get(name string) (*metadata.Texture, bool) {
	ref, ok := ts.textures[name]
	if !ok {
		return nil, false
	}
	return ref.texture, true
}

// Release drops a reference; the texture is forgotten when none are left.
func (ts *TextureSystem) Release(name string) {
	ref, ok := ts.textures[name]
	if !ok {
		core.LogWarn("TextureSystem.Release called for unknown texture '%s'.", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 {
		delete(ts.textures, name)
	}
}

/**
 * @brief Reloads a texture on the job system and swaps the pixels once
 * decoded. Generation is incremented by the swap.
 */
func (ts *TextureSystem) Reload(name string) error {
	ref, ok := ts.textures[name]
	if !ok {
		return fmt.Errorf("texture `%s` is not registered: %w", name, core.ErrAssetNotFound)
	}
	return ts.resources.LoadAsync(name, ref.params,
		func(res *metadata.Resource) {
			img, ok := res.Data.(*metadata.ImageResourceData)
			if !ok {
				return
			}
			ref.texture.Replace(img.Pixels)
			core.LogInfo("Texture '%s' reloaded (generation %d).", name, ref.texture.Generation)
		},
		func(err error) {
			core.LogWarn("Texture '%s' could not be reloaded, keeping the previous pixels: %s", name, err)
		})
}

/**
 * @brief Picks up asset changes reported by the watcher. Should happen
 * once an update cycle, on the main thread.
 */
func (ts *TextureSystem) Update() {
	changes := ts.resources.Changes()
	for {
		select {
		case name, ok := <-changes:
			if !ok {
				return
			}
			if _, registered := ts.textures[name]; !registered {
				continue
			}
			if err := ts.Reload(name); err != nil {
				core.LogWarn(err.Error())
			}
		default:
			return
		}
	}
}
