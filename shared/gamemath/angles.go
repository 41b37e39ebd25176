package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WrapDegrees maps an angle in degrees into (-180, 180].
func WrapDegrees(deg float64) float64 {
	f := math.Mod(deg, 360)
	if f > 180 {
		f -= 360
	}
	if f <= -180 {
		f += 360
	}
	return f
}

// ViewVector returns the unit look direction for a yaw/pitch pair in degrees.
// Yaw 0 faces +Z, yaw 90 faces -X.
func ViewVector(yaw, pitch float64) mgl64.Vec3 {
	p := mgl64.DegToRad(pitch)
	y := mgl64.DegToRad(-yaw)
	return mgl64.Vec3{
		math.Sin(y) * math.Cos(p),
		-math.Sin(p),
		math.Cos(y) * math.Cos(p),
	}
}

// RotateY rotates v around the Y axis by rad radians.
func RotateY(v mgl64.Vec3, rad float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(rad).Mul3x1(v)
}

// Forward returns the horizontal heading for a yaw in degrees.
func Forward(yaw float64) mgl64.Vec3 {
	r := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Sin(-r), 0, math.Cos(r)}
}
