package network

import (
	"slices"

	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Sender delivers a message to the server. *Client satisfies it.
type Sender interface {
	SendMessage(msg any) error
}

// ShipPredictor runs the client copy of one ship. While the local pilot holds
// the controls the ship is simulated here and every tick is reported to the
// server; otherwise it follows the replicated transform.
type ShipPredictor struct {
	ship   *skyship.Ship
	pilot  *skyship.Body
	bodies Bodies
	sender Sender
	logger zerolog.Logger

	sequence uint32
	sendErrs int
}

// NewShipPredictor creates the client ship announced by evt. pilot is the
// body of this client's pilot and must have Local set. bodies may be shared
// between the predictors of one client; nil starts an empty table.
func NewShipPredictor(evt messages.ShipSpawnEvent, world voxel.World, pilot *skyship.Body, bodies Bodies, sender Sender, logger zerolog.Logger) *ShipPredictor {
	if bodies == nil {
		bodies = make(Bodies)
	}
	p := &ShipPredictor{
		pilot:  pilot,
		bodies: bodies,
		sender: sender,
		logger: logger.With().Str("component", "predictor").Logger(),
	}
	p.ship = skyship.New(evt.ShipID, world,
		skyship.WithSide(netconfig.SideClient),
		skyship.WithLogger(p.logger),
		skyship.WithSize(evt.Width, evt.Height),
		skyship.WithPosition(mgl64.Vec3{evt.X, evt.Y, evt.Z}),
		skyship.WithYaw(evt.Yaw),
		skyship.WithHooks(skyship.Hooks{Control: p.onControl}),
	)
	p.ship.Synced().Replace(evt.State)
	return p
}

func (p *ShipPredictor) Ship() *skyship.Ship { return p.ship }

// Piloting reports whether the local pilot holds the controls.
func (p *ShipPredictor) Piloting() bool {
	ctrl := p.ship.Controller()
	return ctrl != nil && ctrl.ID() == p.pilot.EntityID
}

// Sequence is the sequence number of the last control message sent.
func (p *ShipPredictor) Sequence() uint32 { return p.sequence }

// Tick advances the ship one step with the pilot's input. When the local
// pilot drives, the resulting transform is sent to the server.
func (p *ShipPredictor) Tick(in skyship.Input) {
	p.ship.SetInput(in)
	p.ship.Tick()
	if !p.Piloting() {
		return
	}
	t := p.ship.Transform()
	p.send(messages.ShipMove{
		ShipID: p.ship.ID(),
		X:      t.Pos[0],
		Y:      t.Pos[1],
		Z:      t.Pos[2],
		Yaw:    t.Yaw,
		Pitch:  t.Pitch,
	})
}

func (p *ShipPredictor) onControl(s *skyship.Ship, paddleLeft, paddleRight bool, vertical int) {
	p.sequence++
	p.send(messages.ShipControl{
		Sequence:    p.sequence,
		ShipID:      s.ID(),
		PaddleLeft:  paddleLeft,
		PaddleRight: paddleRight,
		Vertical:    vertical,
	})
}

func (p *ShipPredictor) send(msg any) {
	if err := p.sender.SendMessage(msg); err != nil {
		p.sendErrs++
		// Log once per failure streak.
		if p.sendErrs == 1 {
			p.logger.Warn().Err(err).Int32("ship", p.ship.ID()).Msg("failed to send ship update")
		}
		return
	}
	p.sendErrs = 0
}

// ApplyTransform feeds a replicated transform. Ignored while this client
// drives the ship.
func (p *ShipPredictor) ApplyTransform(t netcomponents.NetTransformData) {
	if p.ship.LocallyControlled() {
		return
	}
	p.ship.ReceiveTransform(skyship.Transform{
		Pos:   mgl64.Vec3{t.X, t.Y, t.Z},
		Yaw:   t.Yaw,
		Pitch: t.Pitch,
	})
}

// ApplyState overwrites the synced fields. The local pilot's paddle state is
// kept, the next control step would rewrite it anyway.
func (p *ShipPredictor) ApplyState(st netcomponents.NetShipStateData) {
	sy := p.ship.Synced()
	if p.Piloting() {
		st.PaddleLeft, st.PaddleRight, st.Vertical = sy.PaddleLeft(), sy.PaddleRight(), sy.Vertical()
	}
	sy.Replace(st)
}

// Unseat takes a body that left the world off the ship.
func (p *ShipPredictor) Unseat(id int32) {
	for _, o := range p.ship.Passengers() {
		if o.ID() == id {
			p.ship.RemovePassenger(o)
			return
		}
	}
}

// ApplyPassengers reseats the ship to match the server's seat list. Ids the
// client has never seen are seated as players.
func (p *ShipPredictor) ApplyPassengers(data netcomponents.NetPassengersData) {
	current := make([]int32, 0, len(p.ship.Passengers()))
	for _, o := range p.ship.Passengers() {
		current = append(current, o.ID())
	}
	if slices.Equal(current, data.Seats) {
		return
	}
	for _, o := range slices.Clone(p.ship.Passengers()) {
		p.ship.RemovePassenger(o)
	}
	for _, id := range data.Seats {
		p.ship.AddPassenger(p.occupant(id))
	}
	p.logger.Debug().Int32("ship", p.ship.ID()).Ints32("seats", data.Seats).Bool("piloting", p.Piloting()).Msg("passengers updated")
}

func (p *ShipPredictor) occupant(id int32) skyship.Occupant {
	if id == p.pilot.EntityID {
		return p.pilot
	}
	return p.bodies.get(id, p.ship.Position())
}

// ApplyHurt replays a hit announced by the server.
func (p *ShipPredictor) ApplyHurt(evt messages.ShipHurtEvent) {
	if evt.ShipID != p.ship.ID() {
		return
	}
	p.ship.AnimateHurt()
	p.logger.Debug().Int32("ship", evt.ShipID).Int32("source", evt.SourceID).Msg("ship hurt")
}
