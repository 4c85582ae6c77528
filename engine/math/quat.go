package math

import "github.com/chewxy/math32"

func NewQuatIdentity() Quaternion {
	return Quaternion{W: 1}
}

// NewQuatFromAxisAngle builds a rotation of angle radians around axis.
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	half := 0.5 * angle
	s := math32.Sin(half)
	c := math32.Cos(half)
	q := Quaternion{X: s * axis.X, Y: s * axis.Y, Z: s * axis.Z, W: c}
	if normalize {
		return q.Normalize()
	}
	return q
}

func (q Quaternion) Normal() float32 {
	return math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalize() Quaternion {
	n := q.Normal()
	if n == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Mul returns the Hamilton product q * other.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.X*other.W + q.Y*other.Z - q.Z*other.Y + q.W*other.X,
		Y: -q.X*other.Z + q.Y*other.W + q.Z*other.X + q.W*other.Y,
		Z: q.X*other.Y - q.Y*other.X + q.Z*other.W + q.W*other.Z,
		W: -q.X*other.X - q.Y*other.Y - q.Z*other.Z + q.W*other.W,
	}
}

// ToMat4 returns the rotation matrix for a unit quaternion.
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalize()
	x, y, z, w := n.X, n.Y, n.Z, n.W
	out := NewMat4Identity()
	out.Data[0] = 1 - 2*(y*y+z*z)
	out.Data[1] = 2 * (x*y + z*w)
	out.Data[2] = 2 * (x*z - y*w)
	out.Data[4] = 2 * (x*y - z*w)
	out.Data[5] = 1 - 2*(x*x+z*z)
	out.Data[6] = 2 * (y*z + x*w)
	out.Data[8] = 2 * (x*z + y*w)
	out.Data[9] = 2 * (y*z - x*w)
	out.Data[10] = 1 - 2*(x*x+y*y)
	return out
}

// NewQuatFromMat4 extracts the rotation of a matrix whose upper 3x3 block
// is a pure rotation.
func NewQuatFromMat4(m Mat4) Quaternion {
	r := [9]float32{
		m.Data[0], m.Data[1], m.Data[2],
		m.Data[4], m.Data[5], m.Data[6],
		m.Data[8], m.Data[9], m.Data[10],
	}
	var out [4]float32
	trace := r[0] + r[4] + r[8]
	if trace > 0 {
		root := math32.Sqrt(trace + 1)
		out[3] = 0.5 * root
		root = 0.5 / root
		out[0] = (r[5] - r[7]) * root
		out[1] = (r[6] - r[2]) * root
		out[2] = (r[1] - r[3]) * root
	} else {
		i := 0
		if r[4] > r[0] {
			i = 1
		}
		if r[8] > r[i*3+i] {
			i = 2
		}
		j := (i + 1) % 3
		k := (i + 2) % 3
		root := math32.Sqrt(r[i*3+i] - r[j*3+j] - r[k*3+k] + 1)
		out[i] = 0.5 * root
		root = 0.5 / root
		out[3] = (r[j*3+k] - r[k*3+j]) * root
		out[j] = (r[j*3+i] + r[i*3+j]) * root
		out[k] = (r[k*3+i] + r[i*3+k]) * root
	}
	return Quaternion{X: out[0], Y: out[1], Z: out[2], W: out[3]}
}
