package voxel

import "github.com/df-mc/dragonfly/server/block/cube"

// DefaultSlipperiness is the friction factor of ordinary blocks.
const DefaultSlipperiness = 0.6

// Block is a static block type. Boxes are in block-local coordinates.
type Block struct {
	Name         string
	Boxes        []cube.BBox
	Slipperiness float64
	NoFriction   bool
}

var fullCube = []cube.BBox{cube.Box(0, 0, 0, 1, 1, 1)}

var blocks = map[string]*Block{
	"stone":      {Name: "stone", Boxes: fullCube, Slipperiness: DefaultSlipperiness},
	"dirt":       {Name: "dirt", Boxes: fullCube, Slipperiness: DefaultSlipperiness},
	"planks":     {Name: "planks", Boxes: fullCube, Slipperiness: DefaultSlipperiness},
	"ice":        {Name: "ice", Boxes: fullCube, Slipperiness: 0.98},
	"packed_ice": {Name: "packed_ice", Boxes: fullCube, Slipperiness: 0.98},
	"blue_ice":   {Name: "blue_ice", Boxes: fullCube, Slipperiness: 0.989},
	"slime":      {Name: "slime", Boxes: fullCube, Slipperiness: 0.8},
	"lily_pad": {
		Name:         "lily_pad",
		Boxes:        []cube.BBox{cube.Box(0.0625, 0, 0.0625, 0.9375, 0.09375, 0.9375)},
		Slipperiness: DefaultSlipperiness,
		NoFriction:   true,
	},
	"slab": {
		Name:         "slab",
		Boxes:        []cube.BBox{cube.Box(0, 0, 0, 1, 0.5, 1)},
		Slipperiness: DefaultSlipperiness,
	},
}

// BlockByName looks up a block type from the catalog.
func BlockByName(name string) (*Block, bool) {
	b, ok := blocks[name]
	return b, ok
}
