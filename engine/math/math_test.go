package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = float32(1e-5)

func TestMat4MulAppliesLeftFirst(t *testing.T) {
	scale := NewMat4Scale(NewVec3(2, 2, 2))
	move := NewMat4Translation(NewVec3(1, 0, 0))

	p := NewVec3(1, 0, 0).Transform(scale.Mul(move))
	assert.True(t, p.Compare(NewVec3(3, 0, 0), tol), "got %v", p)

	p = NewVec3(1, 0, 0).Transform(move.Mul(scale))
	assert.True(t, p.Compare(NewVec3(4, 0, 0), tol), "got %v", p)
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4Scale(NewVec3(2, 3, 4)).
		Mul(NewQuatFromAxisAngle(NewVec3Up(), DegToRad(30), false).ToMat4()).
		Mul(NewMat4Translation(NewVec3(1, -2, 5)))

	assert.True(t, m.Mul(m.Inverse()).Compare(NewMat4Identity(), tol))
	assert.Equal(t, Mat4{}, Mat4{}.Inverse())
}

func TestQuaternionRotation(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true)
	p := NewVec3(1, 0, 0).Transform(q.ToMat4())
	assert.True(t, p.Compare(NewVec3(0, 0, -1), tol), "got %v", p)

	id := NewQuatIdentity().Mul(q)
	assert.InDelta(t, q.W, id.W, 1e-6)
}

func TestLookAtMovesTargetOntoNegativeZ(t *testing.T) {
	view := NewMat4LookAt(NewVec3(0, 0, 5), NewVec3Zero(), NewVec3Up())
	p := NewVec3Zero().Transform(view)
	assert.True(t, p.Compare(NewVec3(0, 0, -5), tol), "got %v", p)
}

func TestTransformLocal(t *testing.T) {
	tr := TransformFromPosition(NewVec3(0, 0, -2.7))
	assert.True(t, tr.IsDirty)
	assert.Equal(t, NewVec3(0, 0, -2.7), tr.GetLocal().Position())
	assert.False(t, tr.IsDirty)

	tr.Translate(NewVec3(1, 0, 0))
	assert.Equal(t, NewVec3(1, 0, -2.7), tr.GetLocal().Position())

	var nilTransform *Transform
	assert.Equal(t, NewMat4Identity(), nilTransform.GetLocal())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(1.5), 0, 1))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
}

func TestDecomposeRoundTrip(t *testing.T) {
	rot := NewQuatFromAxisAngle(NewVec3(0, 1, 0), Pi/3, true)
	tr := TransformFromPositionRotationScale(NewVec3(1, 2, 3), rot, NewVec3(2, 2, 2))

	pos, q, scale := tr.GetLocal().Decompose()
	assert.True(t, pos.Compare(NewVec3(1, 2, 3), tol))
	assert.True(t, scale.Compare(NewVec3(2, 2, 2), tol))
	assert.True(t, q.ToMat4().Compare(rot.ToMat4(), tol))
}

func TestQuatFromMat4HalfTurn(t *testing.T) {
	rot := NewQuatFromAxisAngle(NewVec3(1, 0, 0), Pi, true)
	got := NewQuatFromMat4(rot.ToMat4())
	assert.True(t, got.ToMat4().Compare(rot.ToMat4(), tol))
}
