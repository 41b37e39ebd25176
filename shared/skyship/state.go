package skyship

import (
	"math"

	"github.com/automoto/skyships/shared/netconfig"
)

// NoWaterLevel is the water level recorded when no fluid surface was sampled.
const NoWaterLevel = -math.MaxFloat64

// OutOfControlLimit is the number of submerged ticks after which the server
// throws every passenger off.
const OutOfControlLimit = 60

// State is the per-instance scratch state carried across ticks. Only the
// classifier writes WaterLevel and LandFriction; the buoyancy step may halve
// LandFriction and reset LastVerticalVelocity.
type State struct {
	Status         netconfig.Status
	PreviousStatus netconfig.Status

	// OutOfControlTicks counts consecutive submerged ticks.
	OutOfControlTicks float32

	WaterLevel   float64
	LandFriction float64

	DeltaRotation float64
	PaddlePhase   [2]float64

	LastVerticalVelocity float64
}

func newState() State {
	return State{
		Status:         netconfig.StatusInAir,
		PreviousStatus: netconfig.StatusInAir,
		WaterLevel:     NoWaterLevel,
	}
}
