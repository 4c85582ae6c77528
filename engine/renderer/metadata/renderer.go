package metadata

import (
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	Width           uint32
	Height          uint32
}

type LightData struct {
	Type      scene.LightType
	Colour    math.Vec3
	Intensity float32
	/** @brief World position; directional lights point from here to Target. */
	Position math.Vec3
	Target   math.Vec3
}

/** @brief One mesh to be drawn with its world matrix. */
type DrawItem struct {
	NodeID   string
	Name     string
	Model    math.Mat4
	Geometry *scene.Geometry
	Material *scene.PhysicalMaterial
}

/**
 * @brief Everything the backend needs to draw one frame.
 */
type RenderPacket struct {
	FrameNumber uint64
	DeltaTime   float64
	/** @brief Drawing buffer size in physical pixels. */
	Width  uint32
	Height uint32
	/** @brief 0xRRGGBB */
	ClearColour uint32
	/** @brief The current view matrix. */
	ViewMatrix math.Mat4
	/** @brief The current projection matrix. */
	ProjectionMatrix math.Mat4
	/** @brief The current view position. */
	ViewPosition math.Vec3
	/** @brief Sum of the ambient lights, intensity in W. */
	AmbientColour math.Vec4
	Lights        []LightData
	Items         []DrawItem
}
