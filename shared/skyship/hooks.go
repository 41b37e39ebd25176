package skyship

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Hooks are optional callbacks fired from inside Tick and ApplyHit. They run
// synchronously on the ticking goroutine.
type Hooks struct {
	// Hurt fires when the server accepts a hit.
	Hurt func(s *Ship, src DamageSource)
	// PaddleStroke fires when a paddle dips into the water.
	PaddleStroke func(s *Ship, side int, at mgl64.Vec3)
	// Control fires on the piloting client after input was applied.
	Control func(s *Ship, paddleLeft, paddleRight bool, vertical int)
	// Ejected fires when the ship throws its passengers off.
	Ejected func(s *Ship, occupants []Occupant)
	// ItemDropped fires for every loot stack, before Destroyed.
	ItemDropped func(s *Ship, stack ItemStack, at mgl64.Vec3)
	// Destroyed fires once; the host removes the ship from its world.
	Destroyed func(s *Ship, src DamageSource)
}

// EntityQuery finds entities for the mount and push sweep. Implementations
// may return extra entities; the ship filters by exact intersection.
type EntityQuery interface {
	EntitiesWithin(box cube.BBox) []Occupant
}

// DamageSource describes who or what hit the ship.
type DamageSource struct {
	// Privileged sources destroy instantly and never drop loot.
	Privileged              bool
	BypassesInvulnerability bool
	KillerID                int32
	DirectKillerID          int32
}

// ItemStack is a resolved loot drop.
type ItemStack struct {
	Item  string
	Count int
}

// LootContext is passed to the loot resolver when a ship breaks.
type LootContext struct {
	Position       mgl64.Vec3
	Source         DamageSource
	KillerID       int32
	DirectKillerID int32
}

// LootResolver turns an entity type into dropped stacks.
type LootResolver interface {
	Resolve(entityType string, ctx LootContext) ([]ItemStack, error)
}

// Rules are the world rules the ship consults.
type Rules struct {
	EntityDrops bool
}

// DefaultRules has entity drops on.
func DefaultRules() Rules {
	return Rules{EntityDrops: true}
}
