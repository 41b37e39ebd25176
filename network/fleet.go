package network

import (
	"maps"
	"slices"

	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/rs/zerolog"
)

// Default size of a body the client has not seen a NetBody for.
const (
	unknownBodyWidth  = 0.6
	unknownBodyHeight = 1.8
)

// Bodies holds the remote bodies a client has seen, by entity id.
type Bodies map[int32]*skyship.Body

// Track creates or updates a body from its replicated components. Seated
// bodies keep the position their ship gives them.
func (b Bodies) Track(data netcomponents.NetBodyData, t netcomponents.NetTransformData) *skyship.Body {
	body, ok := b[data.EntityID]
	if !ok {
		body = skyship.NewBody(data.EntityID, netconfig.OccupantKind(data.Kind), data.Width, data.Height, mgl64.Vec3{})
		b[data.EntityID] = body
	}
	if body.VehicleID == 0 {
		body.Pos = mgl64.Vec3{t.X, t.Y, t.Z}
	}
	body.Rot.Yaw, body.Rot.HeadYaw, body.Rot.BodyYaw = data.Yaw, data.HeadYaw, data.BodyYaw
	return body
}

func (b Bodies) get(id int32, pos mgl64.Vec3) *skyship.Body {
	body, ok := b[id]
	if !ok {
		body = skyship.NewBody(id, netconfig.OccupantPlayer, unknownBodyWidth, unknownBodyHeight, pos)
		b[id] = body
	}
	return body
}

// EntityState is the decoded component set of one replicated entity. Absent
// components are nil.
type EntityState struct {
	NetworkID  esync.NetworkId
	Transform  *netcomponents.NetTransformData
	Velocity   *netcomponents.NetVelocityData
	Ship       *netcomponents.NetShipStateData
	Body       *netcomponents.NetBodyData
	Passengers *netcomponents.NetPassengersData
}

// DecodeSnapshot deserializes every component of a world snapshot. Components
// that fail to decode are skipped and counted.
func DecodeSnapshot(snapshot esync.WorldSnapshot) ([]EntityState, int) {
	out := make([]EntityState, 0, len(snapshot))
	skipped := 0
	for _, ent := range snapshot {
		st := EntityState{NetworkID: ent.Id}
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				skipped++
				continue
			}
			switch v := instance.(type) {
			case netcomponents.NetTransformData:
				st.Transform = &v
			case netcomponents.NetVelocityData:
				st.Velocity = &v
			case netcomponents.NetShipStateData:
				st.Ship = &v
			case netcomponents.NetBodyData:
				st.Body = &v
			case netcomponents.NetPassengersData:
				st.Passengers = &v
			}
		}
		out = append(out, st)
	}
	return out, skipped
}

// Fleet is the client's view of every ship it was told about.
type Fleet struct {
	world  voxel.World
	pilot  *skyship.Body
	bodies Bodies
	sender Sender
	logger zerolog.Logger
	ships  map[int32]*ShipPredictor
}

func NewFleet(world voxel.World, pilot *skyship.Body, sender Sender, logger zerolog.Logger) *Fleet {
	return &Fleet{
		world:  world,
		pilot:  pilot,
		bodies: make(Bodies),
		sender: sender,
		logger: logger,
		ships:  make(map[int32]*ShipPredictor),
	}
}

// Spawn adds the ship of evt. A ship that is already known is kept.
func (f *Fleet) Spawn(evt messages.ShipSpawnEvent) *ShipPredictor {
	if p, ok := f.ships[evt.ShipID]; ok {
		return p
	}
	p := NewShipPredictor(evt, f.world, f.pilot, f.bodies, f.sender, f.logger)
	f.ships[evt.ShipID] = p
	return p
}

// Despawn removes an entity. Ships are dropped; bodies are unseated from
// whatever ship carried them.
func (f *Fleet) Despawn(id int32) {
	if _, ok := f.ships[id]; ok {
		if f.pilot.VehicleID == id {
			f.pilot.SetVehicle(0)
		}
		delete(f.ships, id)
		return
	}
	for _, p := range f.ships {
		p.Unseat(id)
	}
	delete(f.bodies, id)
}

func (f *Fleet) Ship(id int32) (*ShipPredictor, bool) {
	p, ok := f.ships[id]
	return p, ok
}

func (f *Fleet) Len() int { return len(f.ships) }

// IDs returns the known ship ids in ascending order.
func (f *Fleet) IDs() []int32 {
	return slices.Sorted(maps.Keys(f.ships))
}

// Piloted returns the ship the local pilot drives, or nil.
func (f *Fleet) Piloted() *ShipPredictor {
	if f.pilot.VehicleID == 0 {
		return nil
	}
	p, ok := f.ships[f.pilot.VehicleID]
	if !ok || !p.Piloting() {
		return nil
	}
	return p
}

// Apply feeds decoded snapshot state to the ships. Bodies are tracked first
// so that seat lists can refer to them.
func (f *Fleet) Apply(states []EntityState) {
	for _, st := range states {
		if st.Body == nil || st.Transform == nil {
			continue
		}
		if st.Body.EntityID == f.pilot.EntityID {
			if f.pilot.VehicleID == 0 {
				f.pilot.Pos = mgl64.Vec3{st.Transform.X, st.Transform.Y, st.Transform.Z}
			}
			continue
		}
		f.bodies.Track(*st.Body, *st.Transform)
	}
	for _, st := range states {
		if st.Passengers == nil {
			continue
		}
		p, ok := f.ships[st.Passengers.ShipID]
		if !ok {
			f.logger.Debug().Int32("ship", st.Passengers.ShipID).Msg("snapshot for unknown ship")
			continue
		}
		p.ApplyPassengers(*st.Passengers)
		if st.Ship != nil {
			p.ApplyState(*st.Ship)
		}
		if st.Transform != nil {
			p.ApplyTransform(*st.Transform)
		}
	}
}

// Tick advances every ship. in drives only the ship the local pilot holds.
func (f *Fleet) Tick(in skyship.Input) {
	for _, id := range f.IDs() {
		p := f.ships[id]
		if p.Piloting() {
			p.Tick(in)
		} else {
			p.Tick(skyship.Input{})
		}
	}
}
