package metadata

import (
	"image"

	"github.com/google/uuid"
)

/**
 * @brief The colour space texture data is stored in.
 */
type ColorSpace int

const (
	/** @brief Data is linear and must be encoded before display. */
	ColorSpaceLinear ColorSpace = iota
	/** @brief Data is already sRGB encoded. */
	ColorSpaceSRGB
)

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat      TextureRepeat = 0x1
	TextureRepeatClampToEdge TextureRepeat = 0x3
)

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name, usually the asset path. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The colour space of the pixel data. */
	ColorSpace ColorSpace
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief The raw texture data (pixels). */
	Image *image.RGBA
}

func NewTexture(name string, img *image.RGBA) *Texture {
	b := img.Bounds()
	return &Texture{
		ID:     uuid.New(),
		Name:   name,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Image:  img,
	}
}

// Replace swaps the pixel data in place, keeping every reference to the
// texture valid.
func (t *Texture) Replace(img *image.RGBA) {
	b := img.Bounds()
	t.Image = img
	t.Width = uint32(b.Dx())
	t.Height = uint32(b.Dy())
	t.Generation++
}

/**
 * @brief A structure which maps a texture and its sampling properties.
 */
type TextureMap struct {
	/** @brief A pointer to a Texture. */
	Texture *Texture
	/** @brief Texture filtering mode. */
	Filter TextureFilter
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV TextureRepeat
}
