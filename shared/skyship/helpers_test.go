package skyship

import (
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

type fakeCell struct {
	fluid voxel.Fluid
	boxes []cube.BBox
	slip  float64
	plant bool
}

// fakeWorld answers queries from a fixed cell table. Boxes are world space
// so tests can place shapes that reach outside their cell.
type fakeWorld map[cube.Pos]fakeCell

func (w fakeWorld) FluidAt(pos cube.Pos) voxel.Fluid         { return w[pos].fluid }
func (w fakeWorld) CollisionBoxes(pos cube.Pos) []cube.BBox { return w[pos].boxes }
func (w fakeWorld) Slipperiness(pos cube.Pos) float64       { return w[pos].slip }
func (w fakeWorld) NoFriction(pos cube.Pos) bool            { return w[pos].plant }

type listQuery []Occupant

func (q listQuery) EntitiesWithin(cube.BBox) []Occupant { return q }

type recordingLoot struct {
	calls []LootContext
	types []string
	drops []ItemStack
	err   error
}

func (r *recordingLoot) Resolve(entityType string, ctx LootContext) ([]ItemStack, error) {
	r.types = append(r.types, entityType)
	r.calls = append(r.calls, ctx)
	return r.drops, r.err
}

func mustBlock(name string) *voxel.Block {
	b, ok := voxel.BlockByName(name)
	if !ok {
		panic("unknown block " + name)
	}
	return b
}

// floorGrid is a grid with a slab of the named block at y=0 over
// [-r, r] x [-r, r].
func floorGrid(name string, r int) *voxel.Grid {
	g := voxel.NewGrid()
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			g.SetBlock(cube.Pos{x, 0, z}, mustBlock(name))
		}
	}
	return g
}

// pool fills [-r, r] x [y0, y1] x [-r, r] with water sources.
func pool(g *voxel.Grid, r, y0, y1 int) *voxel.Grid {
	for x := -r; x <= r; x++ {
		for y := y0; y <= y1; y++ {
			for z := -r; z <= r; z++ {
				g.SetWater(cube.Pos{x, y, z}, voxel.SourceAmount)
			}
		}
	}
	return g
}

func creature(id int32, pos mgl64.Vec3) *Body {
	return NewBody(id, netconfig.OccupantCreature, 0.6, 1.8, pos)
}

func player(id int32, local bool) *Body {
	b := NewBody(id, netconfig.OccupantPlayer, 0.6, 1.8, mgl64.Vec3{})
	b.Local = local
	return b
}
