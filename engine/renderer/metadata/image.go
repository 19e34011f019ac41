package metadata

import "image"

/**
 * @brief A structure to hold image resource data.
 */
type ImageResourceData struct {
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The decoded pixels, always converted to RGBA. */
	Pixels *image.RGBA
	/** @brief The name of the decoder that read the file. */
	Format string
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
}
