package protocol

import (
	"fmt"

	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetTransform  uint = 10
	SyncIDNetVelocity   uint = 11
	SyncIDNetShipState  uint = 12
	SyncIDNetBody       uint = 13
	SyncIDNetPassengers uint = 14
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
//
// No component carries an interpolation function: ship transforms are smoothed
// by the fixed-step interpolation buffer in the ship simulation instead.
func RegisterComponents() error {
	registrations := []struct {
		id        uint
		component any
		ctype     donburi.IComponentType
	}{
		{SyncIDNetTransform, netcomponents.NetTransformData{}, netcomponents.NetTransform},
		{SyncIDNetVelocity, netcomponents.NetVelocityData{}, netcomponents.NetVelocity},
		// Synced ship fields: no interpolation (discrete state changes)
		{SyncIDNetShipState, netcomponents.NetShipStateData{}, netcomponents.NetShipState},
		{SyncIDNetBody, netcomponents.NetBodyData{}, netcomponents.NetBody},
		{SyncIDNetPassengers, netcomponents.NetPassengersData{}, netcomponents.NetPassengers},
	}

	for _, r := range registrations {
		if err := esync.RegisterComponent(r.id, r.component, r.ctype); err != nil {
			return fmt.Errorf("register sync component %d: %w", r.id, err)
		}
	}
	return nil
}
