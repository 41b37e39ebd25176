// Package skyship simulates a multi-passenger sky-ship: environment
// classification, buoyancy, pilot control, snapshot interpolation, seating
// and damage. The same code runs on the authoritative server and on the
// predicting client; Side selects which gated branches run.
//
// A Ship is not safe for concurrent use. Hosts tick all ships from one
// goroutine.
package skyship

import (
	"math"

	"github.com/automoto/skyships/shared/gamemath"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const (
	DefaultWidth  = 1.375
	DefaultHeight = 0.5625

	paddleStep  = math.Pi / 8
	paddleSteps = 16 // steps per full turn
	strokeStep  = 2  // the paddle dips in at pi/4
)

// Ship is one sky-ship instance.
type Ship struct {
	id     int32
	side   netconfig.Side
	logger zerolog.Logger

	classifier Classifier
	mover      voxel.Mover
	entities   EntityQuery
	loot       LootResolver
	rules      Rules
	hooks      Hooks

	width, height float64
	pos, vel      mgl64.Vec3
	rot           Rotation
	vehicle       int32

	noGravity    bool
	invulnerable bool
	alive        bool

	synced *Synced
	state  State
	interp InterpolationBuffer
	rig    Rig
	input  Input
}

// Option configures a Ship.
type Option func(*Ship)

func WithSide(side netconfig.Side) Option { return func(s *Ship) { s.side = side } }

func WithLogger(l zerolog.Logger) Option { return func(s *Ship) { s.logger = l } }

// WithMover overrides the world-move primitive. Defaults to the world itself
// when it implements voxel.Mover, otherwise motion is unobstructed.
func WithMover(m voxel.Mover) Option { return func(s *Ship) { s.mover = m } }

func WithEntities(q EntityQuery) Option { return func(s *Ship) { s.entities = q } }

func WithLoot(r LootResolver) Option { return func(s *Ship) { s.loot = r } }

func WithRules(r Rules) Option { return func(s *Ship) { s.rules = r } }

func WithHooks(h Hooks) Option { return func(s *Ship) { s.hooks = h } }

func WithSize(width, height float64) Option {
	return func(s *Ship) { s.width, s.height = width, height }
}

func WithPosition(pos mgl64.Vec3) Option { return func(s *Ship) { s.pos = pos } }

func WithYaw(yaw float64) Option {
	return func(s *Ship) { s.rot.Yaw, s.rot.PrevYaw = yaw, yaw }
}

func WithNoGravity(v bool) Option { return func(s *Ship) { s.noGravity = v } }

func WithInvulnerable(v bool) Option { return func(s *Ship) { s.invulnerable = v } }

// New creates a ship in world with spawn defaults: in air, timers zero.
func New(id int32, world voxel.World, opts ...Option) *Ship {
	s := &Ship{
		id:         id,
		side:       netconfig.SideServer,
		logger:     zerolog.Nop(),
		classifier: Classifier{World: world},
		rules:      DefaultRules(),
		width:      DefaultWidth,
		height:     DefaultHeight,
		alive:      true,
		synced:     NewSynced(),
		state:      newState(),
	}
	if m, ok := world.(voxel.Mover); ok {
		s.mover = m
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Int32("ship", id).Str("side", s.side.String()).Logger()
	return s
}

// Tick runs one simulation step. Dead ships do nothing.
func (s *Ship) Tick() {
	if !s.alive {
		return
	}
	s.rot.PrevYaw = s.rot.Yaw

	s.state.PreviousStatus = s.state.Status
	s.state.Status = s.classifier.Classify(s.BoundingBox(), &s.state)
	if s.state.Status.Submerged() {
		s.state.OutOfControlTicks++
	} else {
		s.state.OutOfControlTicks = 0
	}
	if s.side == netconfig.SideServer && s.state.OutOfControlTicks >= OutOfControlLimit {
		s.EjectPassengers()
	}

	local := s.LocallyControlled()
	if local {
		s.interp.Cancel()
		if !s.playerControlled() {
			s.synced.SetPaddleState(false, false, netconfig.VerticalNone)
		}
		s.float()
		if s.playerControlled() {
			s.control()
		}
		s.move()
	} else {
		s.stepInterpolation()
		s.vel = mgl64.Vec3{}
	}

	s.tickPaddles()
	for _, o := range s.rig.Passengers() {
		s.PositionOccupant(o)
	}
	s.sweep()
	s.decay()
}

// LocallyControlled reports whether this instance owns the ship's motion:
// the client of a seated player pilot, otherwise the server.
func (s *Ship) LocallyControlled() bool {
	if ctrl := s.rig.Controller(); ctrl != nil && ctrl.Kind() == netconfig.OccupantPlayer {
		return ctrl.IsLocal()
	}
	return s.side == netconfig.SideServer
}

func (s *Ship) playerControlled() bool {
	ctrl := s.rig.Controller()
	return ctrl != nil && ctrl.Kind() == netconfig.OccupantPlayer
}

func (s *Ship) float() {
	in := BuoyancyInput{
		Status:           s.state.Status,
		Previous:         s.state.PreviousStatus,
		Velocity:         s.vel,
		DeltaRotation:    s.state.DeltaRotation,
		Y:                s.pos[1],
		BoxHeight:        s.height,
		WaterLevel:       s.state.WaterLevel,
		Vertical:         s.synced.Vertical(),
		NoGravity:        s.noGravity,
		LandFriction:     s.state.LandFriction,
		PlayerControlled: s.playerControlled(),
	}
	if WaterEntry(in.Previous, in.Status) {
		in.SurfaceAbove = s.classifier.WaterLevelAbove(s.BoundingBox(), s.state.LastVerticalVelocity)
	}

	out := Integrate(in)
	s.state.Status = out.Status
	s.vel = out.Velocity
	s.state.DeltaRotation = out.DeltaRotation
	s.state.LandFriction = out.LandFriction
	if out.Snapped {
		s.state.WaterLevel = s.BoundingBox().Max()[1]
		s.pos[1] = out.SnapY
		s.state.LastVerticalVelocity = 0
	}
}

func (s *Ship) control() {
	out := TranslateInput(s.input, s.rot.Yaw, s.state.DeltaRotation, s.vel)
	s.rot.Yaw = out.Yaw
	s.state.DeltaRotation = out.DeltaRotation
	s.vel = out.Velocity
	s.synced.SetPaddleState(out.PaddleLeft, out.PaddleRight, out.Vertical)
	if s.hooks.Control != nil {
		s.hooks.Control(s, out.PaddleLeft, out.PaddleRight, out.Vertical)
	}
}

func (s *Ship) move() {
	delta := s.vel
	if s.mover != nil {
		delta = s.mover.Move(s.BoundingBox(), s.vel)
	}
	s.pos = s.pos.Add(delta)
	for axis := 0; axis < 3; axis++ {
		if delta[axis] != s.vel[axis] {
			s.vel[axis] = 0
		}
	}
	s.state.LastVerticalVelocity = s.vel[1]
}

func (s *Ship) stepInterpolation() {
	if s.interp.Remaining() == 0 {
		return
	}
	t := s.interp.Step(s.Transform())
	s.pos = t.Pos
	s.rot.Yaw = t.Yaw
	s.rot.Pitch = t.Pitch
}

func (s *Ship) tickPaddles() {
	for side := 0; side < 2; side++ {
		if !s.PaddleActive(side) {
			s.state.PaddlePhase[side] = 0
			continue
		}
		// The phase advances in whole steps so the wrap at 2pi stays exact.
		step := int(math.Round(s.state.PaddlePhase[side]/paddleStep)) % paddleSteps
		next := (step + 1) % paddleSteps
		if step <= strokeStep && next >= strokeStep {
			s.stroke(side)
		}
		s.state.PaddlePhase[side] = float64(next) * paddleStep
	}
}

func (s *Ship) stroke(side int) {
	if s.hooks.PaddleStroke == nil {
		return
	}
	view := gamemath.ViewVector(s.rot.Yaw, s.rot.Pitch)
	dx, dz := view[2], -view[0]
	if side == 1 {
		dx, dz = -view[2], view[0]
	}
	s.hooks.PaddleStroke(s, side, mgl64.Vec3{s.pos[0] + dx, s.pos[1], s.pos[2] + dz})
}

// PaddleActive reports whether a paddle is rowing. Paddles only move while
// someone holds the controls.
func (s *Ship) PaddleActive(side int) bool {
	if s.rig.Controller() == nil {
		return false
	}
	if side == 0 {
		return s.synced.PaddleLeft()
	}
	return s.synced.PaddleRight()
}

// RowingTime is the paddle animation phase for side, interpolated by the
// render fraction partial.
func (s *Ship) RowingTime(side int, partial float64) float64 {
	if !s.PaddleActive(side) {
		return 0
	}
	phase := s.state.PaddlePhase[side]
	return gamemath.ClampedLerp(phase-paddleStep, phase, partial)
}

// sweep mounts eligible creatures that bump into an unpiloted ship on the
// server and pushes everything else apart.
func (s *Ship) sweep() {
	if s.entities == nil {
		return
	}
	area := s.BoundingBox().GrowVec3(sweepGrowth)
	canMount := s.side == netconfig.SideServer && !s.playerControlled()
	for _, e := range s.entities.EntitiesWithin(area) {
		if e.ID() == s.id || !e.Pushable() || !e.BoundingBox().IntersectsWith(area) {
			continue
		}
		// Never touch whatever this ship is riding.
		if s.vehicle == e.ID() {
			continue
		}
		if canMount && s.mountable(e) && s.AddPassenger(e) {
			continue
		}
		s.push(e)
	}
}

func (s *Ship) mountable(e Occupant) bool {
	kind := e.Kind()
	return s.rig.Len() < MaxPassengers &&
		e.Vehicle() == 0 &&
		e.BoundingBox().Width() < s.width &&
		kind.Living() && kind != netconfig.OccupantPlayer
}

// push separates e from the hull. Boats are pushed unless they sit on top of
// the hull; anything else only when standing no higher than its bottom.
func (s *Ship) push(e Occupant) {
	box, other := s.BoundingBox(), e.BoundingBox()
	if e.Kind() == netconfig.OccupantBoat {
		if other.Min()[1] < box.Max()[1] {
			pushApart(s, e)
		}
		return
	}
	if other.Min()[1] <= box.Min()[1] {
		pushApart(s, e)
	}
}

// PositionOccupant moves a seated occupant to its seat and carries its
// rotation along with the ship's turn.
func (s *Ship) PositionOccupant(o Occupant) {
	seat := s.rig.Index(o)
	if seat < 0 {
		return
	}
	ride := rideHeight
	if !s.alive {
		ride = deadRideHeight
	}
	n := s.rig.Len()
	f := SeatOffset(seat, n, o.Kind())
	o.SetPosition(seatPosition(s.pos, s.rot.Yaw, f, ride+o.RidingOffset()))

	rot := o.Rotation()
	rot.Yaw += s.state.DeltaRotation
	rot.HeadYaw += s.state.DeltaRotation
	o.SetRotation(rot)
	ClampRotation(o, s.rot.Yaw)

	if o.Kind() == netconfig.OccupantAnimal && n > 1 {
		turn := 90.0
		if o.ID()%2 != 0 {
			turn = 270
		}
		rot = o.Rotation()
		rot.BodyYaw += turn
		rot.HeadYaw += turn
		o.SetRotation(rot)
	}
}

// AddPassenger seats o. It fails silently when the ship is full.
func (s *Ship) AddPassenger(o Occupant) bool {
	if !s.rig.Add(o) {
		return false
	}
	o.SetVehicle(s.id)
	if o.Kind() == netconfig.OccupantPlayer && o.IsLocal() {
		rot := o.Rotation()
		rot.Yaw, rot.PrevYaw, rot.HeadYaw = s.rot.Yaw, s.rot.Yaw, s.rot.Yaw
		o.SetRotation(rot)
	}
	if s.LocallyControlled() && s.interp.Remaining() > 0 {
		t := s.interp.Target()
		s.interp.Cancel()
		s.SetTransform(t)
	}
	return true
}

func (s *Ship) RemovePassenger(o Occupant) bool {
	if !s.rig.Remove(o) {
		return false
	}
	o.SetVehicle(0)
	return true
}

// EjectPassengers throws every passenger off.
func (s *Ship) EjectPassengers() {
	if s.rig.Len() == 0 {
		return
	}
	out := s.rig.Clear()
	for _, o := range out {
		o.SetVehicle(0)
	}
	s.logger.Info().Int("count", len(out)).Msg("passengers ejected")
	if s.hooks.Ejected != nil {
		s.hooks.Ejected(s, out)
	}
}

// Interact is a player using the ship. Sneaking players pass; otherwise the
// server seats them while the ship is not out of control.
func (s *Ship) Interact(player Occupant, sneaking bool) InteractResult {
	if sneaking || s.state.OutOfControlTicks >= OutOfControlLimit {
		return InteractPass
	}
	if s.side == netconfig.SideClient {
		return InteractSuccess
	}
	if player.Vehicle() != 0 || !s.AddPassenger(player) {
		return InteractPass
	}
	return InteractConsume
}

// SetInput stores the pilot input for the next tick.
func (s *Ship) SetInput(in Input) { s.input = in }

// ApplyControl writes the paddle state reported by a remote pilot.
func (s *Ship) ApplyControl(paddleLeft, paddleRight bool, vertical int) {
	s.synced.SetPaddleState(paddleLeft, paddleRight, vertical)
}

// ReceiveTransform seeds the interpolation buffer with an authoritative
// transform.
func (s *Ship) ReceiveTransform(t Transform) { s.interp.Receive(t) }

// SetTransform teleports the ship.
func (s *Ship) SetTransform(t Transform) {
	s.pos = t.Pos
	s.rot.Yaw, s.rot.PrevYaw = t.Yaw, t.Yaw
	s.rot.Pitch = t.Pitch
}

func (s *Ship) Transform() Transform {
	return Transform{Pos: s.pos, Yaw: s.rot.Yaw, Pitch: s.rot.Pitch}
}

// CanCollideWith reports whether other blocks the hull.
func (s *Ship) CanCollideWith(other Occupant) bool { return CanCollide(s, other) }

func (s *Ship) Side() netconfig.Side         { return s.side }
func (s *Ship) Alive() bool                  { return s.alive }
func (s *Ship) Synced() *Synced              { return s.synced }
func (s *Ship) State() State                 { return s.state }
func (s *Ship) Status() netconfig.Status     { return s.state.Status }
func (s *Ship) Velocity() mgl64.Vec3         { return s.vel }
func (s *Ship) SetVelocity(v mgl64.Vec3)     { s.vel = v }
func (s *Ship) Passengers() []Occupant       { return s.rig.Passengers() }
func (s *Ship) Controller() Occupant         { return s.rig.Controller() }
func (s *Ship) Interpolation() int           { return s.interp.Remaining() }
func (s *Ship) Width() float64               { return s.width }
func (s *Ship) Height() float64              { return s.height }
func (s *Ship) ID() int32                    { return s.id }
func (s *Ship) Kind() netconfig.OccupantKind { return netconfig.OccupantBoat }
func (s *Ship) Position() mgl64.Vec3         { return s.pos }
func (s *Ship) SetPosition(pos mgl64.Vec3)   { s.pos = pos }
func (s *Ship) Rotation() Rotation           { return s.rot }
func (s *Ship) SetRotation(rot Rotation)     { s.rot = rot }
func (s *Ship) RidingOffset() float64        { return 0 }
func (s *Ship) Vehicle() int32               { return s.vehicle }
func (s *Ship) SetVehicle(id int32)          { s.vehicle = id }
func (s *Ship) Pushable() bool               { return true }
func (s *Ship) Collidable() bool             { return true }
func (s *Ship) IsVehicle() bool              { return s.rig.Len() > 0 }
func (s *Ship) IsLocal() bool                { return false }

func (s *Ship) Push(delta mgl64.Vec3) { s.vel = s.vel.Add(delta) }

func (s *Ship) BoundingBox() cube.BBox {
	return centeredBox(s.pos, s.width, s.height)
}

