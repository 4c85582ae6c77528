package scene

import (
	"image"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
)

type ColorSpace int

const (
	ColorSpaceLinear ColorSpace = iota
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	if c == ColorSpaceSRGB {
		return "srgb"
	}
	return "linear"
}

// Texture is decoded image data ready for upload.
type Texture struct {
	ID         string
	Name       string
	Image      *image.RGBA
	Width      int
	Height     int
	ColorSpace ColorSpace
	FlipY      bool
}

// Geometry summarises the vertex data of an imported mesh.
type Geometry struct {
	Name           string
	PrimitiveCount int
	VertexCount    int
}

type Mesh struct {
	Geometry *Geometry
	Material *PhysicalMaterial
}

// Names of the numeric material properties that can be edited at runtime.
const (
	PropertyClearcoat          = "clearcoat"
	PropertyClearcoatRoughness = "clearcoatRoughness"
	PropertyMetalness          = "metalness"
	PropertyRoughness          = "roughness"
)

/**
 * @brief A physically based material with a clearcoat layer.
 */
type PhysicalMaterial struct {
	ID    string
	Name  string
	Color math.Vec3
	// The colour map, nil when untextured.
	Map                *Texture
	Metalness          float32
	Roughness          float32
	Clearcoat          float32
	ClearcoatRoughness float32
	// Set whenever the material changed and the renderer must upload it again.
	NeedsUpdate bool
	// Incremented by the renderer on every upload.
	Version uint32
}

func NewPhysicalMaterial(name string) *PhysicalMaterial {
	return &PhysicalMaterial{
		ID:          core.NewIdentifier(),
		Name:        name,
		Color:       math.NewVec3One(),
		Roughness:   1,
		NeedsUpdate: true,
	}
}

// SetProperty writes a named numeric property and marks the material dirty.
// Unknown names are ignored and reported as false.
func (m *PhysicalMaterial) SetProperty(name string, value float32) bool {
	switch name {
	case PropertyClearcoat:
		m.Clearcoat = value
	case PropertyClearcoatRoughness:
		m.ClearcoatRoughness = value
	case PropertyMetalness:
		m.Metalness = value
	case PropertyRoughness:
		m.Roughness = value
	default:
		return false
	}
	m.NeedsUpdate = true
	return true
}

func (m *PhysicalMaterial) Property(name string) (float32, bool) {
	switch name {
	case PropertyClearcoat:
		return m.Clearcoat, true
	case PropertyClearcoatRoughness:
		return m.ClearcoatRoughness, true
	case PropertyMetalness:
		return m.Metalness, true
	case PropertyRoughness:
		return m.Roughness, true
	default:
		return 0, false
	}
}

// PropertyChanged lets a material listen to a property bag.
func (m *PhysicalMaterial) PropertyChanged(name string, value float32) {
	if !m.SetProperty(name, value) {
		core.LogDebug("material '%s' ignores property '%s'", m.Name, name)
	}
}
