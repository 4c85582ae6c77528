package scene

import "github.com/spaghettifunk/trainyard/engine/math"

/**
 * @brief A perspective camera. Its position is the owning node transform;
 * it always looks at Target.
 */
type Camera struct {
	// Vertical field of view in degrees.
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
	Up     math.Vec3
	Target math.Vec3

	node       *Node
	projection math.Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *Node {
	n := newNode(KindCamera, "perspective_camera")
	n.camera = &Camera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     math.NewVec3Up(),
		Target: math.NewVec3Zero(),
		node:   n,
	}
	n.camera.UpdateProjectionMatrix()
	return n
}

func (c *Camera) Node() *Node {
	return c.node
}

// UpdateProjectionMatrix must be called after changing Fov, Aspect, Near or Far.
func (c *Camera) UpdateProjectionMatrix() {
	c.projection = math.NewMat4Perspective(math.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return c.projection
}

func (c *Camera) Position() math.Vec3 {
	return c.node.WorldPosition()
}

func (c *Camera) SetPosition(p math.Vec3) {
	c.node.Transform.SetPosition(p)
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
}

func (c *Camera) ViewMatrix() math.Mat4 {
	return math.NewMat4LookAt(c.Position(), c.Target, c.Up)
}
