package netcomponents

import "github.com/yohamta/donburi"

// NetBodyData describes a non-ship entity (pilot or creature) to clients.
type NetBodyData struct {
	EntityID int32
	Kind     int // netconfig.OccupantKind
	Width    float64
	Height   float64
	Yaw      float64
	HeadYaw  float64
	BodyYaw  float64
	Vehicle  int32 // entity id of the ship being ridden, 0 when on foot
}

var NetBody = donburi.NewComponentType[NetBodyData]()

// NetPassengersData lists the entity ids seated on a ship, seat 0 first.
type NetPassengersData struct {
	ShipID int32
	Seats  []int32
}

var NetPassengers = donburi.NewComponentType[NetPassengersData]()
