package core

import (
	"fmt"

	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/systems/factory"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
)

func (s *Server) onJoin(p peer, req messages.JoinRequest) {
	if s.cfg.Version != "" && req.Version != s.cfg.Version {
		s.logger.Info().Str("client", p.Id()).Str("version", req.Version).Msg("join rejected: version mismatch")
		s.send(p, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server %s, client %s", s.cfg.Version, req.Version),
		})
		return
	}
	if _, ok := s.pilots[p.Id()]; ok {
		s.logger.Debug().Str("client", p.Id()).Msg("duplicate join ignored")
		return
	}
	if s.cfg.MaxPilots > 0 && len(s.pilots) >= s.cfg.MaxPilots {
		s.send(p, messages.JoinRejected{Reason: "server full"})
		return
	}
	if _, ok := s.peers[p.Id()]; !ok {
		s.peers[p.Id()] = p
	}

	id := s.allocID()
	pilot := factory.CreatePilot(s.ecs, s.index.Space(), id, p.Id(), req.PilotName, s.pilotSpawn())

	entity := pilot.Entity()
	if err := srvsync.NetworkSync(s.ecs.World, &entity,
		netcomponents.NetTransform,
		netcomponents.NetBody,
	); err != nil {
		s.logger.Error().Err(err).Int32("pilot", id).Msg("failed to set up network sync for pilot")
	}
	s.pilots[p.Id()] = entity
	s.bodies[id] = entity
	s.setPlayers(len(s.pilots))

	var netID esync.NetworkId
	if nid := esync.GetNetworkId(pilot); nid != nil {
		netID = *nid
	}
	s.send(p, messages.JoinAccepted{
		NetworkID:  netID,
		PilotID:    id,
		ServerName: s.cfg.Name,
		TickRate:   s.cfg.TickRate,
		WorldMap:   s.cfg.WorldMap,
	})
	for shipID := range s.ships {
		if _, ship, ok := s.shipOf(shipID); ok {
			s.send(p, shipSpawnEvent(ship))
		}
	}

	s.logger.Info().Str("client", p.Id()).Str("pilot_name", req.PilotName).Int32("pilot", id).Msg("pilot joined")
}

// pilotSpawn rotates through the level's pilot spawns.
func (s *Server) pilotSpawn() mgl64.Vec3 {
	spawns := s.level.SpawnsOf("pilot")
	if len(spawns) == 0 {
		return mgl64.Vec3{float64(s.level.Width) / 2, 1, float64(s.level.Depth) / 2}
	}
	return spawns[len(s.pilots)%len(spawns)].Pos
}

func (s *Server) onBoard(p peer, req messages.BoardRequest) {
	_, body, ok := s.pilotOf(p.Id())
	if !ok {
		return
	}
	_, ship, ok := s.shipOf(req.ShipID)
	if !ok {
		return
	}
	res := ship.Interact(body.Body, req.Sneaking)
	s.logger.Debug().Int32("ship", ship.ID()).Int32("pilot", body.EntityID).Stringer("result", res).Msg("board request")
}

func (s *Server) onDismount(p peer) {
	_, body, ok := s.pilotOf(p.Id())
	if !ok || body.VehicleID == 0 {
		return
	}
	s.dismount(body)
}

func (s *Server) dismount(body *components.BodyData) {
	_, ship, ok := s.shipOf(body.VehicleID)
	if !ok {
		body.SetVehicle(0)
		return
	}
	if ship.RemovePassenger(body.Body) {
		top := ship.BoundingBox().Max()[1]
		body.Pos[1] = max(body.Pos[1], top)
	}
}

func (s *Server) onControl(p peer, msg messages.ShipControl) {
	entry, body, ok := s.pilotOf(p.Id())
	if !ok {
		return
	}
	pilot := components.Pilot.Get(entry)
	if msg.Sequence <= pilot.LastSequence {
		return
	}
	_, ship, ok := s.shipOf(msg.ShipID)
	if !ok || !controls(ship, body) {
		return
	}
	pilot.LastSequence = msg.Sequence
	ship.ApplyControl(msg.PaddleLeft, msg.PaddleRight, msg.Vertical)
}

func (s *Server) onMove(p peer, msg messages.ShipMove) {
	_, body, ok := s.pilotOf(p.Id())
	if !ok {
		return
	}
	_, ship, ok := s.shipOf(msg.ShipID)
	if !ok || !controls(ship, body) {
		return
	}
	ship.SetTransform(skyship.Transform{
		Pos:   mgl64.Vec3{msg.X, msg.Y, msg.Z},
		Yaw:   msg.Yaw,
		Pitch: msg.Pitch,
	})
}

func (s *Server) onHit(p peer, msg messages.HitRequest) {
	_, body, ok := s.pilotOf(p.Id())
	if !ok || msg.Amount <= 0 {
		return
	}
	_, ship, ok := s.shipOf(msg.ShipID)
	if !ok {
		return
	}
	ship.ApplyHit(skyship.DamageSource{
		KillerID:       body.EntityID,
		DirectKillerID: body.EntityID,
	}, msg.Amount)
}

// removePilot takes a leaving client's pilot out of the world, dismounting it
// first.
func (s *Server) removePilot(clientID string) {
	entry, body, ok := s.pilotOf(clientID)
	if !ok {
		delete(s.pilots, clientID)
		return
	}
	if body.VehicleID != 0 {
		s.dismount(body)
	}
	id := body.EntityID
	s.index.Untrack(components.Object.Get(entry).Object)
	s.ecs.World.Remove(entry.Entity())
	delete(s.pilots, clientID)
	delete(s.bodies, id)
	s.setPlayers(len(s.pilots))
	s.broadcastEvent(messages.DespawnEvent{EntityID: id})
}
