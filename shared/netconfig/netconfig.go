// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on the simulation
// packages so both the dedicated server and the pilot client can import it.
package netconfig

// EntityTypeSkyShip is the registry name of the sky-ship entity type. Loot
// tables are keyed by it.
const EntityTypeSkyShip = "skyships:sky_ship"

// Status is the environment classification of a ship for a single tick.
type Status int

const (
	StatusInAir Status = iota
	StatusOnLand
	StatusInWater
	StatusUnderWater
	StatusUnderFlowingWater
)

var statusNames = map[Status]string{
	StatusInAir:             "in_air",
	StatusOnLand:            "on_land",
	StatusInWater:           "in_water",
	StatusUnderWater:        "under_water",
	StatusUnderFlowingWater: "under_flowing_water",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Submerged reports whether the status counts towards the out-of-control timer.
func (s Status) Submerged() bool {
	return s == StatusUnderWater || s == StatusUnderFlowingWater
}

// OccupantKind replaces runtime class checks on world entities.
type OccupantKind int

const (
	OccupantGeneric  OccupantKind = iota // items, projectiles, anything not alive
	OccupantCreature                     // living, non-animal mobs
	OccupantAnimal
	OccupantPlayer
	OccupantBoat // ships and boats
)

var occupantNames = map[OccupantKind]string{
	OccupantGeneric:  "generic",
	OccupantCreature: "creature",
	OccupantAnimal:   "animal",
	OccupantPlayer:   "player",
	OccupantBoat:     "boat",
}

func (k OccupantKind) String() string {
	if name, ok := occupantNames[k]; ok {
		return name
	}
	return "unknown"
}

// Living reports whether the kind is a living entity.
func (k OccupantKind) Living() bool {
	return k == OccupantCreature || k == OccupantAnimal || k == OccupantPlayer
}

// Vertical intent values carried in the synced state and the control message.
const (
	VerticalDown = -1
	VerticalNone = 0
	VerticalUp   = 1
)

// Side identifies which copy of the simulation is running.
type Side int

const (
	SideServer Side = iota
	SideClient
)

func (s Side) String() string {
	if s == SideServer {
		return "server"
	}
	return "client"
}

// ActionID represents a logical pilot action.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionTurnLeft
	ActionTurnRight
	ActionForward
	ActionBack
	ActionAscend
	ActionDescend
	ActionDismount
	ActionCount // Must be last - used for array sizing
)
