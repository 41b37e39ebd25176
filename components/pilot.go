package components

import "github.com/yohamta/donburi"

// PilotData links a body to the network client controlling it.
type PilotData struct {
	ClientID string
	Name     string
	// LastSequence is the newest ShipControl sequence applied.
	LastSequence uint32
}

var Pilot = donburi.NewComponentType[PilotData]()
