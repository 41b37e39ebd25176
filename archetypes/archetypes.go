package archetypes

import (
	"github.com/automoto/skyships/components"
	cfg "github.com/automoto/skyships/config"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Ship = newArchetype(
		tags.Ship,
		components.Ship,
		components.Object,
		netcomponents.NetTransform,
		netcomponents.NetVelocity,
		netcomponents.NetShipState,
		netcomponents.NetPassengers,
	)
	Pilot = newArchetype(
		tags.Body,
		tags.Pilot,
		components.Body,
		components.Pilot,
		components.Object,
		netcomponents.NetTransform,
		netcomponents.NetBody,
	)
	Creature = newArchetype(
		tags.Body,
		tags.Creature,
		components.Body,
		components.Object,
		netcomponents.NetTransform,
		netcomponents.NetBody,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
