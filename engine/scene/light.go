package scene

import "github.com/spaghettifunk/trainyard/engine/math"

type LightType int

const (
	LightAmbient LightType = iota
	LightDirectional
)

type Light struct {
	Type LightType
	// 0xRRGGBB
	Color     uint32
	Intensity float32
	// Directional lights shine from their position towards Target.
	Target math.Vec3
}

// ColorVec returns the light colour as linear 0..1 components.
func (l *Light) ColorVec() math.Vec3 {
	return math.NewVec3(
		float32((l.Color>>16)&0xff)/255,
		float32((l.Color>>8)&0xff)/255,
		float32(l.Color&0xff)/255,
	)
}

func NewAmbientLight(color uint32, intensity float32) *Node {
	n := newNode(KindLight, "ambient_light")
	n.light = &Light{Type: LightAmbient, Color: color, Intensity: intensity}
	return n
}

func NewDirectionalLight(color uint32, intensity float32) *Node {
	n := newNode(KindLight, "directional_light")
	n.light = &Light{Type: LightDirectional, Color: color, Intensity: intensity}
	return n
}
