package factory

import (
	"github.com/automoto/skyships/archetypes"
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateShip adds a ship entity wrapping s and tracks its footprint in space.
func CreateShip(ecs *ecs.ECS, space *resolv.Space, s *skyship.Ship, spawnIndex int) *donburi.Entry {
	ship := archetypes.Ship.Spawn(ecs)

	obj := components.NewFootprint(s, tags.ResolvEntity, tags.ResolvShip)
	space.Add(obj)
	components.Object.SetValue(ship, components.ObjectData{Object: obj})
	components.Ship.SetValue(ship, components.ShipData{Ship: s, SpawnIndex: spawnIndex})

	netcomponents.NetShipState.SetValue(ship, s.Synced().Snapshot())
	netcomponents.NetPassengers.SetValue(ship, netcomponents.NetPassengersData{ShipID: s.ID()})
	return ship
}
