package skyship

import (
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is an entity's orientation in degrees.
type Rotation struct {
	Yaw     float64
	PrevYaw float64
	HeadYaw float64
	BodyYaw float64
	Pitch   float64
}

// Occupant is the view of a world entity the ship needs to seat, push and
// clamp it. Entity ids are positive; 0 means "none".
type Occupant interface {
	ID() int32
	Kind() netconfig.OccupantKind
	BoundingBox() cube.BBox
	Position() mgl64.Vec3
	SetPosition(pos mgl64.Vec3)
	Rotation() Rotation
	SetRotation(rot Rotation)
	// RidingOffset is the occupant's own vertical mount offset.
	RidingOffset() float64
	// Vehicle is the id of the entity this one rides, 0 when not riding.
	Vehicle() int32
	SetVehicle(id int32)
	Pushable() bool
	Collidable() bool
	Push(delta mgl64.Vec3)
	// IsVehicle reports whether anything rides this entity.
	IsVehicle() bool
	// IsLocal reports whether this entity is the player of this process.
	IsLocal() bool
}

// Body is a plain occupant: a pilot, a creature or a loose item.
type Body struct {
	EntityID    int32
	EntityKind  netconfig.OccupantKind
	Width       float64
	Height      float64
	MountOffset float64
	Pos         mgl64.Vec3
	Vel         mgl64.Vec3
	Rot         Rotation
	VehicleID   int32
	Local       bool
	Immovable   bool
	Passengers  int
}

// NewBody returns a body of the given kind standing at pos. Players sit
// lower on their mount than other entities.
func NewBody(id int32, kind netconfig.OccupantKind, width, height float64, pos mgl64.Vec3) *Body {
	b := &Body{EntityID: id, EntityKind: kind, Width: width, Height: height, Pos: pos}
	if kind == netconfig.OccupantPlayer {
		b.MountOffset = -0.35
	}
	return b
}

func (b *Body) ID() int32                    { return b.EntityID }
func (b *Body) Kind() netconfig.OccupantKind { return b.EntityKind }
func (b *Body) Position() mgl64.Vec3         { return b.Pos }
func (b *Body) SetPosition(pos mgl64.Vec3)   { b.Pos = pos }
func (b *Body) Rotation() Rotation           { return b.Rot }
func (b *Body) SetRotation(rot Rotation)     { b.Rot = rot }
func (b *Body) RidingOffset() float64        { return b.MountOffset }
func (b *Body) Vehicle() int32               { return b.VehicleID }
func (b *Body) SetVehicle(id int32)          { b.VehicleID = id }
func (b *Body) Pushable() bool               { return !b.Immovable && b.EntityKind.Living() }
func (b *Body) Collidable() bool             { return false }
func (b *Body) IsVehicle() bool              { return b.Passengers > 0 }
func (b *Body) IsLocal() bool                { return b.Local }

func (b *Body) BoundingBox() cube.BBox {
	return centeredBox(b.Pos, b.Width, b.Height)
}

func (b *Body) Push(delta mgl64.Vec3) {
	b.Vel = b.Vel.Add(delta)
}

func centeredBox(pos mgl64.Vec3, width, height float64) cube.BBox {
	h := width / 2
	return cube.Box(pos[0]-h, pos[1], pos[2]-h, pos[0]+h, pos[1]+height, pos[2]+h)
}

// CanCollide reports whether a vehicle physically collides with other:
// other must be solid or pushable and not ride alongside it.
func CanCollide(vehicle, other Occupant) bool {
	return (other.Collidable() || other.Pushable()) && !sameVehicle(vehicle, other)
}

func sameVehicle(a, b Occupant) bool {
	if a.Vehicle() == b.ID() || b.Vehicle() == a.ID() {
		return true
	}
	return a.Vehicle() != 0 && a.Vehicle() == b.Vehicle()
}
