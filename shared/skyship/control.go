package skyship

import (
	"math"

	"github.com/automoto/skyships/shared/gamemath"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	turnRate    = 1.0
	creepThrust = 0.005
	fwdThrust   = 0.04
	backThrust  = 0.005
	ascendStep  = 0.1
	ascendLimit = 0.5
)

// Input is the raw pilot input for one tick. It never leaves the client.
type Input struct {
	Left, Right, Forward, Back bool
	Vertical                   int
}

// InputFromActions maps held pilot actions to an Input.
func InputFromActions(held [netconfig.ActionCount]bool) Input {
	in := Input{
		Left:    held[netconfig.ActionTurnLeft],
		Right:   held[netconfig.ActionTurnRight],
		Forward: held[netconfig.ActionForward],
		Back:    held[netconfig.ActionBack],
	}
	switch {
	case held[netconfig.ActionAscend] && !held[netconfig.ActionDescend]:
		in.Vertical = netconfig.VerticalUp
	case held[netconfig.ActionDescend] && !held[netconfig.ActionAscend]:
		in.Vertical = netconfig.VerticalDown
	}
	return in
}

// ControlOutput is the motion produced by one tick of pilot input.
type ControlOutput struct {
	Yaw           float64
	DeltaRotation float64
	Velocity      mgl64.Vec3

	PaddleLeft  bool
	PaddleRight bool
	Vertical    int
}

// TranslateInput turns pilot input into rotation, thrust and paddle state.
// Vertical velocity is overridden rather than accumulated.
func TranslateInput(in Input, yaw, deltaRotation float64, vel mgl64.Vec3) ControlOutput {
	if in.Left {
		deltaRotation -= turnRate
	}
	if in.Right {
		deltaRotation += turnRate
	}

	f := 0.0
	if in.Right != in.Left && !in.Forward && !in.Back {
		f += creepThrust
	}
	yaw += deltaRotation
	if in.Forward {
		f += fwdThrust
	}
	if in.Back {
		f -= backThrust
	}

	heading := gamemath.Forward(yaw)
	vy := 0.0
	if in.Vertical > 0 {
		vy = math.Min(ascendLimit, vel[1]+ascendStep)
	}

	return ControlOutput{
		Yaw:           yaw,
		DeltaRotation: deltaRotation,
		Velocity:      mgl64.Vec3{vel[0] + heading[0]*f, vy, vel[2] + heading[2]*f},
		PaddleLeft:    (in.Right && !in.Left) || in.Forward,
		PaddleRight:   (in.Left && !in.Right) || in.Forward,
		Vertical:      in.Vertical,
	}
}
