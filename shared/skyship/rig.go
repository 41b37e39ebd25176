package skyship

import (
	"math"

	"github.com/automoto/skyships/shared/gamemath"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxPassengers is the seat count; seat 0 is the controller.
	MaxPassengers = 2

	rideHeight     = -0.1
	deadRideHeight = 0.01
	rearSeat       = -0.6
	animalShift    = 0.2
	maxRiderTurn   = 105.0

	pushStrength = 0.05
	pushMinDist  = 0.01
)

// sweepGrowth inflates the hull for the mount and push sweep.
var sweepGrowth = mgl64.Vec3{0.2, -0.01, 0.2}

// Rig is the ordered passenger list of a ship.
type Rig struct {
	seats []Occupant
}

// Passengers returns the occupants in seat order. The slice must not be
// modified.
func (r *Rig) Passengers() []Occupant { return r.seats }

func (r *Rig) Len() int { return len(r.seats) }

// Controller returns the occupant of seat 0, or nil.
func (r *Rig) Controller() Occupant {
	if len(r.seats) == 0 {
		return nil
	}
	return r.seats[0]
}

// Index returns the seat of o, or -1.
func (r *Rig) Index(o Occupant) int {
	for i, s := range r.seats {
		if s.ID() == o.ID() {
			return i
		}
	}
	return -1
}

func (r *Rig) Has(o Occupant) bool { return r.Index(o) >= 0 }

// Add seats o in the first free seat. Full rigs and duplicates are refused.
func (r *Rig) Add(o Occupant) bool {
	if len(r.seats) >= MaxPassengers || r.Has(o) {
		return false
	}
	r.seats = append(r.seats, o)
	return true
}

// Remove unseats o; later occupants move up one seat.
func (r *Rig) Remove(o Occupant) bool {
	i := r.Index(o)
	if i < 0 {
		return false
	}
	r.seats = append(r.seats[:i], r.seats[i+1:]...)
	return true
}

// Clear unseats everyone and returns who was seated.
func (r *Rig) Clear() []Occupant {
	out := r.seats
	r.seats = nil
	return out
}

// SeatOffset is the forward offset of a seat, before rotation into world space.
// A lone rider sits in the middle.
func SeatOffset(seat, occupied int, kind netconfig.OccupantKind) float64 {
	if occupied <= 1 {
		return 0
	}
	f := 0.0
	if seat > 0 {
		f = rearSeat
	}
	if kind == netconfig.OccupantAnimal {
		f += animalShift
	}
	return f
}

// ClampRotation turns the occupant's body to face with the ship and keeps its
// yaw within maxRiderTurn degrees of the ship's. The clamp correction is also
// applied to the previous yaw so the rider does not visibly snap.
func ClampRotation(o Occupant, shipYaw float64) {
	rot := o.Rotation()
	rot.BodyYaw = shipYaw
	rel := gamemath.WrapDegrees(rot.Yaw - shipYaw)
	clamped := gamemath.Clamp(rel, -maxRiderTurn, maxRiderTurn)
	rot.PrevYaw += clamped - rel
	rot.Yaw += clamped - rel
	rot.HeadYaw = rot.Yaw
	o.SetRotation(rot)
}

// seatPosition places seat offset f around the ship's origin.
func seatPosition(origin mgl64.Vec3, yaw, f, ride float64) mgl64.Vec3 {
	v := gamemath.RotateY(mgl64.Vec3{f, 0, 0}, -mgl64.DegToRad(yaw)-math.Pi/2)
	return mgl64.Vec3{origin[0] + v[0], origin[1] + ride, origin[2] + v[2]}
}

// pushApart applies the mutual separation impulse between a and b. Whichever
// side carries passengers is not moved.
func pushApart(a, b Occupant) {
	if sameVehicle(a, b) {
		return
	}
	pa, pb := a.Position(), b.Position()
	dx, dz := pb[0]-pa[0], pb[2]-pa[2]
	d := gamemath.AbsMax(dx, dz)
	if d < pushMinDist {
		return
	}
	d = math.Sqrt(d)
	dx /= d
	dz /= d
	inv := math.Min(1, 1/d)
	dx *= inv * pushStrength
	dz *= inv * pushStrength
	if !a.IsVehicle() {
		a.Push(mgl64.Vec3{-dx, 0, -dz})
	}
	if !b.IsVehicle() {
		b.Push(mgl64.Vec3{dx, 0, dz})
	}
}
