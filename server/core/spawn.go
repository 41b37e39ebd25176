package core

import (
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/messages"
	"github.com/automoto/skyships/shared/netcomponents"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/automoto/skyships/systems/factory"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// spawnLevel places the level's ships and creatures.
func (s *Server) spawnLevel() {
	for _, sp := range s.level.SpawnsOf("ship") {
		s.spawnShip(sp)
	}
	for _, sp := range s.level.SpawnsOf("creature") {
		s.spawnCreature(sp)
	}
	s.logger.Info().
		Str("level", s.level.Name).
		Int("ships", len(s.ships)).
		Int("creatures", len(s.bodies)).
		Msg("level spawned")
}

// spawnShip creates the ship of a spawn point. A transform saved by an
// earlier run replaces the spawn's own.
func (s *Server) spawnShip(sp voxel.Spawn) *donburi.Entry {
	t := skyship.Transform{Pos: sp.Pos, Yaw: sp.Yaw}
	saved, ok, err := s.store.Load(sp.Index)
	if err != nil {
		s.logger.Warn().Err(err).Int("spawn", sp.Index).Msg("could not load saved ship transform")
	} else if ok {
		t = saved
	}

	id := s.allocID()
	ship := skyship.New(id, s.level.Grid,
		skyship.WithSide(netconfig.SideServer),
		skyship.WithLogger(s.logger),
		skyship.WithEntities(s.index),
		skyship.WithLoot(s.loot),
		skyship.WithRules(skyship.Rules{EntityDrops: s.cfg.EntityDrops}),
		skyship.WithHooks(s.shipHooks()),
		skyship.WithSize(s.shipCfg.Width, s.shipCfg.Height),
		skyship.WithPosition(t.Pos),
		skyship.WithYaw(t.Yaw),
		skyship.WithNoGravity(s.shipCfg.NoGravity),
		skyship.WithInvulnerable(s.shipCfg.Invulnerable),
	)
	entry := factory.CreateShip(s.ecs, s.index.Space(), ship, sp.Index)

	entity := entry.Entity()
	if err := srvsync.NetworkSync(s.ecs.World, &entity,
		netcomponents.NetTransform,
		netcomponents.NetVelocity,
		netcomponents.NetShipState,
		netcomponents.NetPassengers,
	); err != nil {
		s.logger.Error().Err(err).Int32("ship", id).Msg("failed to set up network sync for ship")
	}
	s.ships[id] = entity
	return entry
}

func (s *Server) spawnCreature(sp voxel.Spawn) *donburi.Entry {
	id := s.allocID()
	entry := factory.CreateCreature(s.ecs, s.index.Space(), id, netconfig.OccupantAnimal, sp.Pos)

	entity := entry.Entity()
	if err := srvsync.NetworkSync(s.ecs.World, &entity,
		netcomponents.NetTransform,
		netcomponents.NetBody,
	); err != nil {
		s.logger.Error().Err(err).Int32("creature", id).Msg("failed to set up network sync for creature")
	}
	s.bodies[id] = entity
	return entry
}

// shipHooks turn ship callbacks into client events. They run on the game
// loop goroutine, inside a ship tick or a hit.
func (s *Server) shipHooks() skyship.Hooks {
	return skyship.Hooks{
		Hurt: func(ship *skyship.Ship, src skyship.DamageSource) {
			sy := ship.Synced()
			s.broadcastEvent(messages.ShipHurtEvent{
				ShipID:   ship.ID(),
				HurtDir:  sy.HurtDir(),
				Damage:   sy.Damage(),
				SourceID: src.DirectKillerID,
			})
		},
		PaddleStroke: func(ship *skyship.Ship, side int, at mgl64.Vec3) {
			s.broadcastEvent(messages.PaddleStrokeEvent{
				ShipID: ship.ID(),
				Side:   side,
				X:      at[0], Y: at[1], Z: at[2],
			})
		},
		Ejected: func(ship *skyship.Ship, occupants []skyship.Occupant) {
			ids := make([]int32, 0, len(occupants))
			for _, o := range occupants {
				ids = append(ids, o.ID())
			}
			s.metrics.ejected(len(ids))
			s.broadcastEvent(messages.PassengersEjectedEvent{ShipID: ship.ID(), Occupants: ids})
		},
		ItemDropped: func(ship *skyship.Ship, stack skyship.ItemStack, at mgl64.Vec3) {
			s.broadcastEvent(messages.LootDropEvent{
				ShipID: ship.ID(),
				Item:   stack.Item,
				Count:  stack.Count,
				X:      at[0], Y: at[1], Z: at[2],
			})
		},
		Destroyed: func(ship *skyship.Ship, src skyship.DamageSource) {
			s.metrics.shipDestroyed(src.KillerID != 0)
			s.broadcastEvent(messages.ShipDestroyedEvent{ShipID: ship.ID(), KillerID: src.KillerID})
			// Deferred removal
			s.doomed = append(s.doomed, ship.ID())
		},
	}
}

// removeDoomed removes ships destroyed during this tick. Entities are never
// removed while a system iterates them.
func (s *Server) removeDoomed() {
	for _, id := range s.doomed {
		entry, _, ok := s.shipOf(id)
		if !ok {
			continue
		}
		if err := s.store.Forget(components.Ship.Get(entry).SpawnIndex); err != nil {
			s.logger.Warn().Err(err).Int32("ship", id).Msg("could not clear saved ship transform")
		}
		s.index.Untrack(components.Object.Get(entry).Object)
		s.ecs.World.Remove(entry.Entity())
		delete(s.ships, id)
		s.broadcastEvent(messages.DespawnEvent{EntityID: id})
	}
	s.doomed = s.doomed[:0]
}

// SaveShips writes the transform of every live ship to the store. It must
// run on the game loop goroutine.
func (s *Server) SaveShips() {
	saved := 0
	for id := range s.ships {
		entry, ship, ok := s.shipOf(id)
		if !ok {
			continue
		}
		if err := s.store.Save(components.Ship.Get(entry).SpawnIndex, ship.Transform()); err != nil {
			s.logger.Warn().Err(err).Int32("ship", id).Msg("could not save ship transform")
			continue
		}
		saved++
	}
	s.logger.Debug().Int("ships", saved).Msg("ship transforms saved")
}
