package gamemath

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampedLerp interpolates from a to b, holding at the ends outside t in [0, 1].
func ClampedLerp(a, b, t float64) float64 {
	if t < 0 {
		return a
	}
	if t > 1 {
		return b
	}
	return a + (b-a)*t
}

// Floor returns the voxel coordinate containing v.
func Floor(v float64) int {
	return int(math.Floor(v))
}

// Ceil returns the smallest voxel coordinate not below v.
func Ceil(v float64) int {
	return int(math.Ceil(v))
}

// AbsMax returns the larger magnitude of a and b.
func AbsMax(a, b float64) float64 {
	return math.Max(math.Abs(a), math.Abs(b))
}
