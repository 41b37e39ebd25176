package skyship

import (
	"github.com/automoto/skyships/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
)

// InterpolationSteps is the number of ticks a received snapshot is spread over.
const InterpolationSteps = 10

// Transform is a position plus yaw and pitch in degrees.
type Transform struct {
	Pos   mgl64.Vec3
	Yaw   float64
	Pitch float64
}

// InterpolationBuffer smooths authoritative transforms on an instance that
// does not control its own motion.
type InterpolationBuffer struct {
	target    Transform
	remaining int
}

// Receive stores a new target and restarts the step count.
func (b *InterpolationBuffer) Receive(target Transform) {
	b.target = target
	b.remaining = InterpolationSteps
}

// Step moves cur one step toward the target. Position and pitch close
// 1/remaining of the gap, yaw turns the short way round.
func (b *InterpolationBuffer) Step(cur Transform) Transform {
	if b.remaining <= 0 {
		return cur
	}
	n := float64(b.remaining)
	next := Transform{
		Pos:   cur.Pos.Add(b.target.Pos.Sub(cur.Pos).Mul(1 / n)),
		Yaw:   cur.Yaw + gamemath.WrapDegrees(b.target.Yaw-cur.Yaw)/n,
		Pitch: cur.Pitch + (b.target.Pitch-cur.Pitch)/n,
	}
	b.remaining--
	return next
}

// Cancel drops any pending steps; local motion wins from here on.
func (b *InterpolationBuffer) Cancel() { b.remaining = 0 }

func (b *InterpolationBuffer) Remaining() int    { return b.remaining }
func (b *InterpolationBuffer) Target() Transform { return b.target }
