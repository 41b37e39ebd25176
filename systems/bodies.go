package systems

import (
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/automoto/skyships/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Walking body physics, per tick.
const (
	bodyGravity  = 0.08
	verticalDrag = 0.98
	airDrag      = 0.91
	groundDrag   = 0.6 * 0.91
)

// NewBodySystem moves every loose body through the terrain: velocity first,
// then gravity and drag. Seated bodies are placed by their ship and skipped.
func NewBodySystem(world voxel.Mover) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		tags.Body.Each(e.World, func(entry *donburi.Entry) {
			b := components.Body.Get(entry)
			if b.VehicleID != 0 {
				b.Vel = mgl64.Vec3{}
				return
			}
			stepBody(b, world)
		})
	}
}

func stepBody(b *components.BodyData, world voxel.Mover) {
	delta := world.Move(b.BoundingBox(), b.Vel)
	b.Pos = b.Pos.Add(delta)
	b.OnGround = b.Vel[1] < 0 && delta[1] != b.Vel[1]
	for axis := 0; axis < 3; axis++ {
		if delta[axis] != b.Vel[axis] {
			b.Vel[axis] = 0
		}
	}

	drag := airDrag
	if b.OnGround {
		drag = groundDrag
	}
	b.Vel = mgl64.Vec3{b.Vel[0] * drag, (b.Vel[1] - bodyGravity) * verticalDrag, b.Vel[2] * drag}
}
