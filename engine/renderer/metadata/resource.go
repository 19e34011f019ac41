package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown resource type, never loaded. */
	ResourceTypeNone ResourceType = iota
	/** @brief Image resource type (PNG, JPEG, BMP, WebP). */
	ResourceTypeImage
	/** @brief three.js typeface JSON font. */
	ResourceTypeTypefaceFont
	/** @brief TrueType or OpenType font. */
	ResourceTypeTrueTypeFont
	/** @brief Bitmap font resource type (AngelCode .fnt). */
	ResourceTypeBitmapFont
	/** @brief Timeline choreography (YAML). */
	ResourceTypeChoreography
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeImage:
		return "image"
	case ResourceTypeTypefaceFont:
		return "typeface"
	case ResourceTypeTrueTypeFont:
		return "truetype"
	case ResourceTypeBitmapFont:
		return "bitmap-font"
	case ResourceTypeChoreography:
		return "choreography"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the loader which handled this resource. */
	Type ResourceType
	/** @brief The name of the resource, relative to the asset directory. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
