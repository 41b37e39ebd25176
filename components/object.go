package components

import (
	"github.com/automoto/skyships/shared/skyship"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// PixelsPerBlock scales world X/Z into the integer cells of the resolv space.
const PixelsPerBlock = 16

// ObjectData is an entity's X/Z footprint in the broad-phase space. Object.Data
// holds the entity's skyship.Occupant.
type ObjectData struct {
	*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()

// Footprint projects box onto the resolv plane: resolv X is world X, resolv Y
// is world Z.
func Footprint(box cube.BBox) (x, y, w, h float64) {
	lo, hi := box.Min(), box.Max()
	return lo[0] * PixelsPerBlock, lo[2] * PixelsPerBlock,
		(hi[0] - lo[0]) * PixelsPerBlock, (hi[2] - lo[2]) * PixelsPerBlock
}

// NewFootprint builds the broad-phase object of o. It is not added to any
// space.
func NewFootprint(o skyship.Occupant, tags ...string) *resolv.Object {
	x, y, w, h := Footprint(o.BoundingBox())
	obj := resolv.NewObject(x, y, w, h, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	obj.Data = o
	return obj
}
