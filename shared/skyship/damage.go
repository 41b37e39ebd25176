package skyship

import (
	"github.com/automoto/skyships/shared/netconfig"
)

const (
	hurtTicks       = 10
	damagePerHit    = 10
	destroyDamage   = 40
	hurtReplayScale = 11
	damageDecay     = 1.0
)

// ApplyHit is the damage entry point. Invulnerable hits are absorbed without
// effect. On the server a live ship records the hit and breaks once damage
// passes destroyDamage or the source is privileged. Every path reports the
// hit as handled.
func (s *Ship) ApplyHit(src DamageSource, amount float32) bool {
	if s.invulnerable && !src.BypassesInvulnerability {
		return true
	}
	if s.side != netconfig.SideServer || !s.alive {
		return true
	}

	s.synced.SetHurtDir(-s.synced.HurtDir())
	s.synced.SetHurtTime(hurtTicks)
	s.synced.SetDamage(s.synced.Damage() + amount*damagePerHit)
	if s.hooks.Hurt != nil {
		s.hooks.Hurt(s, src)
	}

	if src.Privileged || s.synced.Damage() > destroyDamage {
		if !src.Privileged && s.rules.EntityDrops {
			s.dropLoot(src)
		}
		s.Destroy(src)
	}
	return true
}

// AnimateHurt replays an observed hit on a copy that does not own damage.
// The damage is scaled rather than accumulated.
func (s *Ship) AnimateHurt() {
	s.synced.SetHurtDir(-s.synced.HurtDir())
	s.synced.SetHurtTime(hurtTicks)
	s.synced.SetDamage(s.synced.Damage() * hurtReplayScale)
}

// Destroy kills the ship immediately. Passengers are thrown off first.
func (s *Ship) Destroy(src DamageSource) {
	if !s.alive {
		return
	}
	s.alive = false
	s.EjectPassengers()
	s.logger.Debug().
		Int32("killer", src.KillerID).
		Bool("privileged", src.Privileged).
		Float32("damage", s.synced.Damage()).
		Msg("ship destroyed")
	if s.hooks.Destroyed != nil {
		s.hooks.Destroyed(s, src)
	}
}

func (s *Ship) dropLoot(src DamageSource) {
	if s.loot == nil {
		return
	}
	stacks, err := s.loot.Resolve(netconfig.EntityTypeSkyShip, LootContext{
		Position:       s.pos,
		Source:         src,
		KillerID:       src.KillerID,
		DirectKillerID: src.DirectKillerID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("loot resolve failed")
		return
	}
	if s.hooks.ItemDropped == nil {
		return
	}
	for _, st := range stacks {
		s.hooks.ItemDropped(s, st, s.pos)
	}
}

// decay winds the hurt timer and damage down by one step, never below zero.
func (s *Ship) decay() {
	decaySynced(s.synced)
}

func decaySynced(sy *Synced) {
	if t := sy.HurtTime(); t > 0 {
		sy.SetHurtTime(t - 1)
	}
	if d := sy.Damage(); d > 0 {
		d -= damageDecay
		if d < 0 {
			d = 0
		}
		sy.SetDamage(d)
	}
}
