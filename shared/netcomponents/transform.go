package netcomponents

import "github.com/yohamta/donburi"

// NetTransformData is the periodic transform snapshot used to seed client
// interpolation. Yaw and Pitch are in degrees.
type NetTransformData struct {
	X, Y, Z    float64
	Yaw, Pitch float64
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

type NetVelocityData struct {
	X, Y, Z float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()
