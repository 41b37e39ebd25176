package gamemath

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{-180, 180},
		{200, -160},
		{-200, 160},
		{540, 180},
		{725, 5},
		{-359, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapDegrees(tt.in), 1e-9, "WrapDegrees(%v)", tt.in)
	}
}

func TestViewVector(t *testing.T) {
	assertVec(t, mgl64.Vec3{0, 0, 1}, ViewVector(0, 0))
	assertVec(t, mgl64.Vec3{-1, 0, 0}, ViewVector(90, 0))
	assertVec(t, mgl64.Vec3{0, -1, 0}, ViewVector(0, 90))
}

func TestForwardMatchesView(t *testing.T) {
	for _, yaw := range []float64{0, 45, 90, 180, -30} {
		v := ViewVector(yaw, 0)
		assertVec(t, v, Forward(yaw))
	}
}

func TestRotateY(t *testing.T) {
	assertVec(t, mgl64.Vec3{0, 0, -1}, RotateY(mgl64.Vec3{1, 0, 0}, mgl64.DegToRad(90)))
	assertVec(t, mgl64.Vec3{0, 2, 0}, RotateY(mgl64.Vec3{0, 2, 0}, 1.3))
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))

	assert.Equal(t, 2.0, ClampedLerp(2, 4, -1))
	assert.Equal(t, 4.0, ClampedLerp(2, 4, 2))
	assert.Equal(t, 3.0, ClampedLerp(2, 4, 0.5))

	assert.Equal(t, -1, Floor(-0.5))
	assert.Equal(t, 0, Ceil(-0.5))
	assert.Equal(t, 3.0, AbsMax(-3, 2))
}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}
