package components

import (
	"github.com/automoto/skyships/shared/skyship"
	"github.com/yohamta/donburi"
)

type ShipData struct {
	Ship *skyship.Ship
	// SpawnIndex keys the ship's saved transform.
	SpawnIndex int
}

var Ship = donburi.NewComponentType[ShipData]()
