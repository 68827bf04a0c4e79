package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func Round(x float32) float32 {
	return float32(math.Round(float64(x)))
}

func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

func Ceil(x float32) float32 {
	return float32(math.Ceil(float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func FloorInt(x float32) int32 {
	return int32(math.Floor(float64(x)))
}

func CeilInt(x float32) int32 {
	return int32(math.Ceil(float64(x)))
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Clamp(value, min, max float32) float32 {
	return Min(Max(value, min), max)
}

func Lerp(a, b, factor float32) float32 {
	return a*(1-factor) + factor*b
}

// Mod is the euclidean remainder, always in [0, n).
func Mod(x, n int32) int32 {
	r := x % n
	if r < 0 {
		r += n
	}
	return r
}

// FloorDiv rounds the quotient towards negative infinity.
func FloorDiv(x, n int32) int32 {
	q := x / n
	if (x%n != 0) && ((x < 0) != (n < 0)) {
		q--
	}
	return q
}

// SafeNormalize returns the zero vector instead of NaNs for degenerate input.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

func IsNaN3(v mgl32.Vec3) bool {
	return math.IsNaN(float64(v.X())) || math.IsNaN(float64(v.Y())) || math.IsNaN(float64(v.Z()))
}

func ToGrid(position mgl32.Vec3) (int32, int32, int32) {
	return FloorInt(position.X()), FloorInt(position.Y()), FloorInt(position.Z())
}
