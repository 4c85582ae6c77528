package math

import "github.com/chewxy/math32"

func NewMat4Identity() Mat4 {
	m := Mat4{}
	m.Data[0] = 1
	m.Data[5] = 1
	m.Data[10] = 1
	m.Data[15] = 1
	return m
}

// Mul returns mt * other: a transform that applies mt first and other second.
func (mt Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	a, b := mt.Data, other.Data
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out.Data[row*4+col] = a[row*4+0]*b[0*4+col] +
				a[row*4+1]*b[1*4+col] +
				a[row*4+2]*b[2*4+col] +
				a[row*4+3]*b[3*4+col]
		}
	}
	return out
}

/**
 * @brief Creates and returns a perspective matrix.
 *
 * @param fovRadians The vertical field of view in radians.
 */
func NewMat4Perspective(fovRadians, aspectRatio, nearClip, farClip float32) Mat4 {
	halfTanFov := math32.Tan(fovRadians * 0.5)
	out := Mat4{}
	out.Data[0] = 1.0 / (aspectRatio * halfTanFov)
	out.Data[5] = 1.0 / halfTanFov
	out.Data[10] = -((farClip + nearClip) / (farClip - nearClip))
	out.Data[11] = -1.0
	out.Data[14] = -((2.0 * farClip * nearClip) / (farClip - nearClip))
	return out
}

// NewMat4LookAt creates a view matrix looking at target from position.
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	f := target.Sub(position).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)

	out := Mat4{}
	out.Data[0] = s.X
	out.Data[1] = u.X
	out.Data[2] = -f.X
	out.Data[4] = s.Y
	out.Data[5] = u.Y
	out.Data[6] = -f.Y
	out.Data[8] = s.Z
	out.Data[9] = u.Z
	out.Data[10] = -f.Z
	out.Data[12] = -s.Dot(position)
	out.Data[13] = -u.Dot(position)
	out.Data[14] = f.Dot(position)
	out.Data[15] = 1
	return out
}

func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	return out
}

// Inverse returns the inverse of mt. A singular matrix yields the zero matrix.
func (mt Mat4) Inverse() Mat4 {
	a := mt.Data
	b00 := a[0]*a[5] - a[1]*a[4]
	b01 := a[0]*a[6] - a[2]*a[4]
	b02 := a[0]*a[7] - a[3]*a[4]
	b03 := a[1]*a[6] - a[2]*a[5]
	b04 := a[1]*a[7] - a[3]*a[5]
	b05 := a[2]*a[7] - a[3]*a[6]
	b06 := a[8]*a[13] - a[9]*a[12]
	b07 := a[8]*a[14] - a[10]*a[12]
	b08 := a[8]*a[15] - a[11]*a[12]
	b09 := a[9]*a[14] - a[10]*a[13]
	b10 := a[9]*a[15] - a[11]*a[13]
	b11 := a[10]*a[15] - a[11]*a[14]

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Mat4{}
	}
	det = 1 / det

	out := Mat4{}
	o := &out.Data
	o[0] = (a[5]*b11 - a[6]*b10 + a[7]*b09) * det
	o[1] = (a[2]*b10 - a[1]*b11 - a[3]*b09) * det
	o[2] = (a[13]*b05 - a[14]*b04 + a[15]*b03) * det
	o[3] = (a[10]*b04 - a[9]*b05 - a[11]*b03) * det
	o[4] = (a[6]*b08 - a[4]*b11 - a[7]*b07) * det
	o[5] = (a[0]*b11 - a[2]*b08 + a[3]*b07) * det
	o[6] = (a[14]*b02 - a[12]*b05 - a[15]*b01) * det
	o[7] = (a[8]*b05 - a[10]*b02 + a[11]*b01) * det
	o[8] = (a[4]*b10 - a[5]*b08 + a[7]*b06) * det
	o[9] = (a[1]*b08 - a[0]*b10 - a[3]*b06) * det
	o[10] = (a[12]*b04 - a[13]*b02 + a[15]*b00) * det
	o[11] = (a[9]*b02 - a[8]*b04 - a[11]*b00) * det
	o[12] = (a[5]*b07 - a[4]*b09 - a[6]*b06) * det
	o[13] = (a[0]*b09 - a[1]*b07 + a[2]*b06) * det
	o[14] = (a[13]*b01 - a[12]*b03 - a[14]*b00) * det
	o[15] = (a[8]*b03 - a[9]*b01 + a[10]*b00) * det
	return out
}

// Position returns the translation part of the matrix.
func (mt Mat4) Position() Vec3 {
	return Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
}

func (mt Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range mt.Data {
		if math32.Abs(mt.Data[i]-other.Data[i]) > tolerance {
			return false
		}
	}
	return true
}

// Decompose splits an affine matrix built as scale, rotate, translate back
// into its parts.
func (mt Mat4) Decompose() (position Vec3, rotation Quaternion, scale Vec3) {
	d := mt.Data
	position = Vec3{d[12], d[13], d[14]}
	scale = Vec3{
		Vec3{d[0], d[1], d[2]}.Length(),
		Vec3{d[4], d[5], d[6]}.Length(),
		Vec3{d[8], d[9], d[10]}.Length(),
	}
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return position, NewQuatIdentity(), scale
	}
	r := NewMat4Identity()
	for i := 0; i < 3; i++ {
		r.Data[i] = d[i] / scale.X
		r.Data[4+i] = d[4+i] / scale.Y
		r.Data[8+i] = d[8+i] / scale.Z
	}
	return position, NewQuatFromMat4(r).Normalize(), scale
}
