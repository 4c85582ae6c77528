// Package controls moves cameras in response to pointer input.
package controls

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

const (
	orbitEpsilon = 0.000001
	// Zoom factor applied per wheel notch.
	dollyStep = 0.95
)

type spherical struct {
	Radius float32
	// Polar angle from the up axis.
	Phi float32
	// Azimuth around the up axis.
	Theta float32
}

func sphericalFromVec3(v math.Vec3) spherical {
	s := spherical{Radius: v.Length()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math32.Atan2(v.X, v.Z)
	s.Phi = math32.Acos(math.Clamp(v.Y/s.Radius, -1, 1))
	return s
}

func (s spherical) vec3() math.Vec3 {
	sinPhi := math32.Sin(s.Phi) * s.Radius
	return math.NewVec3(
		sinPhi*math32.Sin(s.Theta),
		math32.Cos(s.Phi)*s.Radius,
		sinPhi*math32.Cos(s.Theta),
	)
}

/**
 * @brief Orbits a camera around a target. Pointer input accumulates a
 * pending rotation and zoom; Update applies it once per frame, damped when
 * EnableDamping is set.
 */
type OrbitControls struct {
	Camera *scene.Camera
	Target math.Vec3

	EnableDamping bool
	// Fraction of the pending motion applied per update when damping.
	DampingFactor float32
	RotateSpeed   float32
	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32
	MaxPolarAngle float32
	// Height in pixels of the surface pointer deltas are measured on.
	ViewportHeight float32

	delta spherical
	scale float32
}

func NewOrbitControls(camera *scene.Camera) *OrbitControls {
	return &OrbitControls{
		Camera:         camera,
		Target:         camera.Target,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		MinDistance:    0,
		MaxDistance:    math32.Inf(1),
		MinPolarAngle:  0,
		MaxPolarAngle:  math.Pi,
		ViewportHeight: 1,
		scale:          1,
	}
}

// Rotate queues a rotation from a pointer drag of dx, dy pixels.
func (o *OrbitControls) Rotate(dx, dy float32) {
	h := o.ViewportHeight
	if h <= 0 {
		h = 1
	}
	o.delta.Theta -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.delta.Phi -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Dolly queues a zoom; positive notches move the camera closer.
func (o *OrbitControls) Dolly(notches float32) {
	o.scale *= math32.Pow(dollyStep, notches)
}

// Pending reports whether rotation or zoom is still waiting to be applied.
func (o *OrbitControls) Pending() bool {
	return math32.Abs(o.delta.Theta) > orbitEpsilon ||
		math32.Abs(o.delta.Phi) > orbitEpsilon ||
		math32.Abs(o.scale-1) > orbitEpsilon
}

// Update applies pending motion to the camera and reports whether the
// camera moved.
func (o *OrbitControls) Update() bool {
	before := o.Camera.Node().Transform.Position
	offset := before.Sub(o.Target)
	s := sphericalFromVec3(offset)

	if o.EnableDamping {
		s.Theta += o.delta.Theta * o.DampingFactor
		s.Phi += o.delta.Phi * o.DampingFactor
	} else {
		s.Theta += o.delta.Theta
		s.Phi += o.delta.Phi
	}
	s.Phi = math.Clamp(s.Phi, o.MinPolarAngle, o.MaxPolarAngle)
	s.Phi = math.Clamp(s.Phi, orbitEpsilon, math.Pi-orbitEpsilon)
	s.Radius = math.Clamp(s.Radius*o.scale, o.MinDistance, o.MaxDistance)

	after := o.Target.Add(s.vec3())
	o.Camera.SetPosition(after)
	o.Camera.LookAt(o.Target)

	if o.EnableDamping {
		o.delta.Theta *= 1 - o.DampingFactor
		o.delta.Phi *= 1 - o.DampingFactor
	} else {
		o.delta = spherical{}
	}
	o.scale = 1

	return before.Distance(after) > orbitEpsilon
}
