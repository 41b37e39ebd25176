package network

import (
	"testing"

	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFleet() (*Fleet, *skyship.Body, *recordingSender) {
	pilot := skyship.NewBody(4, netconfig.OccupantPlayer, 0.6, 1.8, mgl64.Vec3{})
	pilot.Local = true
	sender := &recordingSender{}
	return NewFleet(voxel.NewGrid(), pilot, sender, zerolog.Nop()), pilot, sender
}

func spawnAt(id int32, x float64) messages.ShipSpawnEvent {
	return messages.ShipSpawnEvent{
		ShipID: id,
		X:      x, Y: 5,
		Width:  skyship.DefaultWidth,
		Height: skyship.DefaultHeight,
		State:  netcomponents.DefaultNetShipState(),
	}
}

func TestFleetSpawnIsIdempotent(t *testing.T) {
	f, _, _ := newFleet()

	first := f.Spawn(spawnAt(1, 0))
	again := f.Spawn(spawnAt(1, 30))
	f.Spawn(spawnAt(7, 3))

	assert.Same(t, first, again)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, []int32{1, 7}, f.IDs())
}

func TestFleetApplySeatsTrackedBodies(t *testing.T) {
	f, pilot, _ := newFleet()
	f.Spawn(spawnAt(1, 0))

	f.Apply([]EntityState{
		{
			Passengers: &netcomponents.NetPassengersData{ShipID: 1, Seats: []int32{4, 9}},
			Ship:       &netcomponents.NetShipStateData{HurtDir: 1, Damage: 3},
			Transform:  &netcomponents.NetTransformData{X: 10, Y: 5},
		},
		{
			Body:      &netcomponents.NetBodyData{EntityID: 9, Kind: int(netconfig.OccupantAnimal), Width: 0.9, Height: 1.4},
			Transform: &netcomponents.NetTransformData{X: 1, Y: 5},
		},
		{
			Body:      &netcomponents.NetBodyData{EntityID: 4, Kind: int(netconfig.OccupantPlayer)},
			Transform: &netcomponents.NetTransformData{X: 2, Y: 5, Z: 2},
		},
	})

	p, ok := f.Ship(1)
	require.True(t, ok)
	require.Len(t, p.Ship().Passengers(), 2)
	assert.Equal(t, netconfig.OccupantAnimal, p.Ship().Passengers()[1].Kind())
	assert.Equal(t, float32(3), p.Ship().Synced().Damage())
	assert.Zero(t, p.Ship().Interpolation(), "the local pilot drives, server transforms are ignored")
	assert.Same(t, p, f.Piloted())
	assert.Equal(t, int32(1), pilot.VehicleID)
}

func TestFleetApplyMovesUnseatedPilot(t *testing.T) {
	f, pilot, _ := newFleet()

	f.Apply([]EntityState{{
		Body:      &netcomponents.NetBodyData{EntityID: 4, Kind: int(netconfig.OccupantPlayer)},
		Transform: &netcomponents.NetTransformData{X: 2, Y: 1, Z: 3},
	}})

	assert.Equal(t, mgl64.Vec3{2, 1, 3}, pilot.Pos)
	assert.Nil(t, f.Piloted())
}

func TestFleetApplyIgnoresUnknownShips(t *testing.T) {
	f, _, _ := newFleet()

	f.Apply([]EntityState{{Passengers: &netcomponents.NetPassengersData{ShipID: 3, Seats: []int32{4}}}})

	assert.Zero(t, f.Len())
}

func TestFleetTickDrivesOnlyPilotedShip(t *testing.T) {
	f, _, sender := newFleet()
	f.Spawn(spawnAt(1, 0))
	f.Spawn(spawnAt(2, 20))
	f.Apply([]EntityState{{Passengers: &netcomponents.NetPassengersData{ShipID: 2, Seats: []int32{4}}}})

	f.Tick(skyship.Input{Forward: true})

	moves := sentOf[messages.ShipMove](sender)
	require.Len(t, moves, 1)
	assert.Equal(t, int32(2), moves[0].ShipID)
	p, _ := f.Ship(1)
	assert.False(t, p.Ship().Synced().PaddleLeft())
}

func TestFleetDespawn(t *testing.T) {
	f, pilot, _ := newFleet()
	f.Spawn(spawnAt(1, 0))
	f.Apply([]EntityState{
		{Passengers: &netcomponents.NetPassengersData{ShipID: 1, Seats: []int32{4, 9}}},
		{
			Body:      &netcomponents.NetBodyData{EntityID: 9, Kind: int(netconfig.OccupantAnimal)},
			Transform: &netcomponents.NetTransformData{},
		},
	})

	f.Despawn(9)
	p, _ := f.Ship(1)
	require.Len(t, p.Ship().Passengers(), 1)
	assert.NotContains(t, f.bodies, int32(9))

	f.Despawn(1)
	assert.Zero(t, f.Len())
	assert.Zero(t, pilot.VehicleID)
}

func TestBodiesTrackKeepsSeatedPosition(t *testing.T) {
	b := make(Bodies)
	body := b.Track(netcomponents.NetBodyData{EntityID: 3, Kind: int(netconfig.OccupantCreature), Yaw: 45},
		netcomponents.NetTransformData{X: 1, Y: 2, Z: 3})
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, body.Pos)
	assert.Equal(t, 45.0, body.Rot.Yaw)

	body.VehicleID = 8
	b.Track(netcomponents.NetBodyData{EntityID: 3}, netcomponents.NetTransformData{X: 9})
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, body.Pos)
}
