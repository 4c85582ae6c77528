package controls

import (
	"testing"

	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/stretchr/testify/assert"
)

func newOrbit() *OrbitControls {
	cam := scene.NewPerspectiveCamera(50, 1, 0.1, 200).Camera()
	cam.SetPosition(math.NewVec3(0, 0, 5))
	o := NewOrbitControls(cam)
	o.ViewportHeight = 600
	return o
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	o := newOrbit()
	assert.False(t, o.Update())
	assert.True(t, o.Camera.Position().Compare(math.NewVec3(0, 0, 5), 1e-4))
}

func TestRotateKeepsDistance(t *testing.T) {
	o := newOrbit()
	o.Rotate(150, 0)
	assert.True(t, o.Pending())
	assert.True(t, o.Update())
	assert.False(t, o.Pending())

	pos := o.Camera.Position()
	assert.InDelta(t, 5, pos.Length(), 1e-4)
	// a quarter of the viewport height is a quarter turn
	assert.InDelta(t, -5, pos.X, 1e-3)
	assert.Equal(t, o.Target, o.Camera.Target)
}

func TestDampingSpreadsMotionOverFrames(t *testing.T) {
	o := newOrbit()
	o.EnableDamping = true
	o.Rotate(60, 0)

	assert.True(t, o.Update())
	first := o.Camera.Position()
	moved := first.Distance(math.NewVec3(0, 0, 5))
	assert.Greater(t, moved, float32(0))
	assert.Less(t, moved, float32(0.2))
	assert.True(t, o.Pending())

	for i := 0; i < 500 && o.Pending(); i++ {
		o.Update()
	}
	assert.False(t, o.Pending())
	assert.InDelta(t, 5, o.Camera.Position().Length(), 1e-3)
}

func TestPolarAngleStaysOffThePoles(t *testing.T) {
	o := newOrbit()
	o.Rotate(0, 10000)
	o.Update()
	pos := o.Camera.Position()
	assert.InDelta(t, 5, pos.Y, 1e-3)
	assert.InDelta(t, 0, pos.X, 1e-3)
	assert.InDelta(t, 0, pos.Z, 1e-3)
}

func TestDollyClampsDistance(t *testing.T) {
	o := newOrbit()
	o.MinDistance = 2
	o.MaxDistance = 10

	o.Dolly(100)
	o.Update()
	assert.InDelta(t, 2, o.Camera.Position().Length(), 1e-4)

	o.Dolly(-200)
	o.Update()
	assert.InDelta(t, 10, o.Camera.Position().Length(), 1e-4)
}
