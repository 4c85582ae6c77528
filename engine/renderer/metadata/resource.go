package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	ResourceTypeNone ResourceType = iota
	/** @brief Image resource type, decoded into a texture. */
	ResourceTypeImage
	/** @brief Model resource type (glTF or GLB scene). */
	ResourceTypeModel
	/** @brief Material preset resource type (toml property values). */
	ResourceTypeMaterial
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeImage:
		return "image"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeMaterial:
		return "material"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name the resource was requested with. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the source file in bytes. */
	DataSize uint64
	/** @brief The resource data, *scene.Texture, *scene.Node or
	 *properties.Preset. */
	Data interface{}
}

/** @brief Parameters for image resources. */
type ImageResourceParams struct {
	/** @brief Flip the image vertically while decoding. */
	FlipY bool
	/** @brief Treat the pixels as sRGB encoded. */
	SRGB bool
	/** @brief Downscale so neither side exceeds this; 0 keeps the source size. */
	MaxDimension int
}
