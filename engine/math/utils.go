package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

const (
	Pi      = math32.Pi
	Epsilon = float32(1.192092896e-07)
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

func DegToRad(degrees float32) float32 {
	return degrees * Pi / 180.0
}

func RadToDeg(radians float32) float32 {
	return radians * 180.0 / Pi
}
