package messages

import "github.com/automoto/skyships/shared/netcomponents"

// ShipSpawnEvent is sent once when a ship becomes visible to a client.
type ShipSpawnEvent struct {
	ShipID     int32
	EntityType string
	X, Y, Z    float64
	Yaw, Pitch float64
	Width      float64
	Height     float64
	State      netcomponents.NetShipStateData
}

// ShipHurtEvent is broadcast when the server accepts a hit; clients replay it
// with the cosmetic hurt animation.
type ShipHurtEvent struct {
	ShipID   int32
	HurtDir  int
	Damage   float32
	SourceID int32
}

// ShipDestroyedEvent is broadcast when a ship is removed by damage.
type ShipDestroyedEvent struct {
	ShipID   int32
	KillerID int32 // 0 if environmental
}

// LootDropEvent is broadcast for every stack spawned by a destroyed ship.
type LootDropEvent struct {
	ShipID  int32
	Item    string
	Count   int
	X, Y, Z float64
}

// PaddleStrokeEvent marks the moment a paddle enters the water; clients play
// their own stroke sound at the given position.
type PaddleStrokeEvent struct {
	ShipID  int32
	Side    int // 0 left, 1 right
	X, Y, Z float64
}

// PassengersEjectedEvent is broadcast when a submerged ship throws its riders.
type PassengersEjectedEvent struct {
	ShipID    int32
	Occupants []int32
}

// DespawnEvent is broadcast when an entity is removed
type DespawnEvent struct {
	EntityID int32
}
