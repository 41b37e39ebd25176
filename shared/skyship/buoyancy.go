package skyship

import (
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// entryClearance lifts the hull just above the surface on water entry.
	entryClearance = 0.101
	buoyancyScale  = 0.0615384615
	buoyancyDamp   = 0.75

	airLift        = 0.1
	airGravity     = -4.0e-4
	flowingSink    = -7.0e-4
	underwaterLift = 0.01

	waterFriction      = 0.9
	underwaterFriction = 0.45
	airFriction        = 0.01
)

// BuoyancyInput is everything the integrator reads for one tick.
type BuoyancyInput struct {
	Status   netconfig.Status
	Previous netconfig.Status

	Velocity      mgl64.Vec3
	DeltaRotation float64

	Y          float64
	BoxHeight  float64
	WaterLevel float64
	// SurfaceAbove is only read on water entry; see Classifier.WaterLevelAbove.
	SurfaceAbove float64

	Vertical         int
	NoGravity        bool
	LandFriction     float64
	PlayerControlled bool
}

// BuoyancyOutput is the integrated result. When Snapped is set the caller
// moves the ship to SnapY and resets its last vertical velocity.
type BuoyancyOutput struct {
	Status        netconfig.Status
	Velocity      mgl64.Vec3
	DeltaRotation float64
	LandFriction  float64

	Snapped bool
	SnapY   float64
}

// WaterEntry reports the air to water transition that triggers the snap.
func WaterEntry(previous, current netconfig.Status) bool {
	return previous == netconfig.StatusInAir &&
		current != netconfig.StatusInAir && current != netconfig.StatusOnLand
}

// Integrate applies one tick of buoyancy, gravity and friction.
func Integrate(in BuoyancyInput) BuoyancyOutput {
	out := BuoyancyOutput{
		Status:        in.Status,
		Velocity:      in.Velocity,
		DeltaRotation: in.DeltaRotation,
		LandFriction:  in.LandFriction,
	}

	// The entry tick skips drag so it is not applied twice.
	if WaterEntry(in.Previous, in.Status) {
		out.Snapped = true
		out.SnapY = in.SurfaceAbove - in.BoxHeight + entryClearance
		out.Velocity[0] = 0
		out.Velocity[2] = 0
		out.Status = netconfig.StatusInWater
		return out
	}

	var d1, d2, k float64
	switch in.Status {
	case netconfig.StatusInWater:
		d2 = (in.WaterLevel - in.Y) / in.BoxHeight
		k = waterFriction
	case netconfig.StatusUnderFlowingWater:
		d1 = flowingSink
		k = waterFriction
	case netconfig.StatusUnderWater:
		d2 = underwaterLift
		k = underwaterFriction
	case netconfig.StatusInAir:
		switch {
		case in.Vertical > 0:
			d1 = airLift
		case !in.NoGravity:
			d1 = airGravity
		}
		k = airFriction
	case netconfig.StatusOnLand:
		k = in.LandFriction
		if in.PlayerControlled {
			out.LandFriction /= 2
		}
	}

	out.Velocity = mgl64.Vec3{out.Velocity[0] * k, out.Velocity[1] + d1, out.Velocity[2] * k}
	out.DeltaRotation *= k
	if d2 > 0 {
		out.Velocity[1] = (out.Velocity[1] + d2*buoyancyScale) * buoyancyDamp
	}
	return out
}
