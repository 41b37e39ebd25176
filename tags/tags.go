package tags

import "github.com/yohamta/donburi"

var (
	Ship     = donburi.NewTag().SetName("Ship")
	Body     = donburi.NewTag().SetName("Body")
	Pilot    = donburi.NewTag().SetName("Pilot")
	Creature = donburi.NewTag().SetName("Creature")
)

// Resolv tags for the broad-phase space
const (
	ResolvEntity = "entity"
	ResolvShip   = "ship"
	ResolvQuery  = "query"
)
