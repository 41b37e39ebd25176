// Package voxel provides the block world the ships fly through: fluid and
// collision queries, a sparse grid implementation and a TMX loader shared
// between the dedicated server and the pilot client.
package voxel

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// SourceAmount is the fluid amount of a still water source. Flowing water
// carries 1-7.
const SourceAmount = 8

// Fluid describes the fluid occupying a single cell.
type Fluid struct {
	Water  bool
	Source bool
	// Height is the surface height inside the cell, 0..1.
	Height float64
}

// World answers the per-cell queries the ship simulation samples every tick.
// Implementations must be cheap and non-failing.
type World interface {
	FluidAt(pos cube.Pos) Fluid
	// CollisionBoxes returns the cell's collision boxes in world space.
	CollisionBoxes(pos cube.Pos) []cube.BBox
	Slipperiness(pos cube.Pos) float64
	// NoFriction reports plants that never contribute ground friction.
	NoFriction(pos cube.Pos) bool
}

// Mover is the world-move primitive: it clips a desired displacement of box
// against terrain and returns the displacement actually allowed.
type Mover interface {
	Move(box cube.BBox, delta mgl64.Vec3) mgl64.Vec3
}

// Spawn is a named spawn point read from a level file.
type Spawn struct {
	Kind  string // "ship", "pilot" or "creature"
	Pos   mgl64.Vec3
	Yaw   float64
	Index int
}

// Level is a loaded world plus its spawn points.
type Level struct {
	Name string
	Grid *Grid
	// Width and Depth are the map extents in blocks along X and Z.
	Width, Depth int
	Spawns       []Spawn
}

// SpawnsOf returns the spawns of the given kind in index order.
func (l *Level) SpawnsOf(kind string) []Spawn {
	var out []Spawn
	for _, s := range l.Spawns {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
