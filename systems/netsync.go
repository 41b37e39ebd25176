package systems

import (
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SyncShips copies the ship simulation into the replicated components. The
// synced field set is only rewritten when a field changed.
func SyncShips(e *ecs.ECS) {
	tags.Ship.Each(e.World, func(entry *donburi.Entry) {
		s := components.Ship.Get(entry).Ship

		t := s.Transform()
		netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{
			X: t.Pos[0], Y: t.Pos[1], Z: t.Pos[2],
			Yaw: t.Yaw, Pitch: t.Pitch,
		})
		v := s.Velocity()
		netcomponents.NetVelocity.SetValue(entry, netcomponents.NetVelocityData{X: v[0], Y: v[1], Z: v[2]})

		if sy := s.Synced(); sy.Dirty() != 0 {
			netcomponents.NetShipState.SetValue(entry, sy.Snapshot())
			sy.ClearDirty()
		}

		seats := make([]int32, 0, skyship.MaxPassengers)
		for _, p := range s.Passengers() {
			seats = append(seats, p.ID())
		}
		netcomponents.NetPassengers.SetValue(entry, netcomponents.NetPassengersData{ShipID: s.ID(), Seats: seats})
	})
}

// SyncBodies copies pilots and creatures into their replicated components.
func SyncBodies(e *ecs.ECS) {
	tags.Body.Each(e.World, func(entry *donburi.Entry) {
		b := components.Body.Get(entry)
		netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{
			X: b.Pos[0], Y: b.Pos[1], Z: b.Pos[2],
			Yaw: b.Rot.Yaw, Pitch: b.Rot.Pitch,
		})
		netcomponents.NetBody.SetValue(entry, netcomponents.NetBodyData{
			EntityID: b.EntityID,
			Kind:     int(b.EntityKind),
			Width:    b.Width,
			Height:   b.Height,
			Yaw:      b.Rot.Yaw,
			HeadYaw:  b.Rot.HeadYaw,
			BodyYaw:  b.Rot.BodyYaw,
			Vehicle:  b.VehicleID,
		})
	})
}
