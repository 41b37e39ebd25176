package netcomponents

import "github.com/yohamta/donburi"

// NetShipStateData is the replicated field set of a ship. Field order is the
// wire order; BubbleTime is kept for wire compatibility and never read by the
// simulation.
type NetShipStateData struct {
	HurtTime    int
	HurtDir     int // +1 or -1, flips on every hit
	Damage      float32
	PaddleLeft  bool
	PaddleRight bool
	Vertical    int // netconfig.VerticalDown/None/Up
	BubbleTime  int
}

var NetShipState = donburi.NewComponentType[NetShipStateData]()

// DefaultNetShipState returns the state a ship spawns with.
func DefaultNetShipState() NetShipStateData {
	return NetShipStateData{HurtDir: 1}
}
