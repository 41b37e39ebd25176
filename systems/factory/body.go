package factory

import (
	"github.com/automoto/skyships/archetypes"
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Player and creature sizes in blocks.
const (
	PilotWidth     = 0.6
	PilotHeight    = 1.8
	CreatureWidth  = 0.9
	CreatureHeight = 1.4
)

// CreatePilot adds the body a network client walks and rides with.
func CreatePilot(ecs *ecs.ECS, space *resolv.Space, id int32, clientID, name string, pos mgl64.Vec3) *donburi.Entry {
	pilot := archetypes.Pilot.Spawn(ecs)

	body := skyship.NewBody(id, netconfig.OccupantPlayer, PilotWidth, PilotHeight, pos)
	trackBody(pilot, space, body)
	components.Pilot.SetValue(pilot, components.PilotData{
		ClientID: clientID,
		Name:     name,
	})
	return pilot
}

// CreateCreature adds an unpiloted living body that ships may pick up.
func CreateCreature(ecs *ecs.ECS, space *resolv.Space, id int32, kind netconfig.OccupantKind, pos mgl64.Vec3) *donburi.Entry {
	creature := archetypes.Creature.Spawn(ecs)

	body := skyship.NewBody(id, kind, CreatureWidth, CreatureHeight, pos)
	trackBody(creature, space, body)
	return creature
}

func trackBody(entry *donburi.Entry, space *resolv.Space, body *skyship.Body) {
	obj := components.NewFootprint(body, tags.ResolvEntity)
	space.Add(obj)
	components.Object.SetValue(entry, components.ObjectData{Object: obj})
	components.Body.SetValue(entry, components.BodyData{Body: body})
}
