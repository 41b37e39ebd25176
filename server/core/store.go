package core

import (
	"encoding/json"
	"fmt"

	"github.com/automoto/skyships/shared/skyship"
	"github.com/go-gl/mathgl/mgl64"
)

// ItemStore is the key/value persistence the transform store writes to.
// *gdata.Manager satisfies it.
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// SavedTransform is the on-disk form of a ship's base transform.
type SavedTransform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// TransformStore remembers where each spawned ship was left so a restarted
// server puts ships back where pilots parked them.
type TransformStore struct {
	items ItemStore
}

func NewTransformStore(items ItemStore) *TransformStore {
	return &TransformStore{items: items}
}

func shipKey(spawnIndex int) string {
	return fmt.Sprintf("ship-%d", spawnIndex)
}

// Load returns the saved transform of the ship spawned at spawnIndex. A
// missing item is not an error.
func (ts *TransformStore) Load(spawnIndex int) (skyship.Transform, bool, error) {
	if ts == nil || ts.items == nil {
		return skyship.Transform{}, false, nil
	}
	data, err := ts.items.LoadItem(shipKey(spawnIndex))
	if err != nil {
		return skyship.Transform{}, false, fmt.Errorf("load %s: %w", shipKey(spawnIndex), err)
	}
	if len(data) == 0 {
		return skyship.Transform{}, false, nil
	}

	var saved SavedTransform
	if err := json.Unmarshal(data, &saved); err != nil {
		return skyship.Transform{}, false, fmt.Errorf("parse %s: %w", shipKey(spawnIndex), err)
	}
	return skyship.Transform{
		Pos:   mgl64.Vec3{saved.X, saved.Y, saved.Z},
		Yaw:   saved.Yaw,
		Pitch: saved.Pitch,
	}, true, nil
}

func (ts *TransformStore) Save(spawnIndex int, t skyship.Transform) error {
	if ts == nil || ts.items == nil {
		return nil
	}
	data, err := json.Marshal(SavedTransform{
		X: t.Pos[0], Y: t.Pos[1], Z: t.Pos[2],
		Yaw: t.Yaw, Pitch: t.Pitch,
	})
	if err != nil {
		return fmt.Errorf("serialize %s: %w", shipKey(spawnIndex), err)
	}
	if err := ts.items.SaveItem(shipKey(spawnIndex), data); err != nil {
		return fmt.Errorf("save %s: %w", shipKey(spawnIndex), err)
	}
	return nil
}

// Forget clears the saved transform of a destroyed ship so it respawns at
// its level position.
func (ts *TransformStore) Forget(spawnIndex int) error {
	if ts == nil || ts.items == nil {
		return nil
	}
	return ts.items.SaveItem(shipKey(spawnIndex), nil)
}
