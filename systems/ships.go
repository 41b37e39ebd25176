package systems

import (
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateShips runs one simulation tick of every ship. Destroyed ships stay
// in the world until the host removes them after the update.
func UpdateShips(e *ecs.ECS) {
	tags.Ship.Each(e.World, func(entry *donburi.Entry) {
		components.Ship.Get(entry).Ship.Tick()
	})
}
