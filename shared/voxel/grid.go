package voxel

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

type cell struct {
	block *Block
	water int // fluid amount, SourceAmount for a source, 0 for none
}

// Grid is a sparse in-memory voxel world. It implements World and Mover.
// Empty cells are air.
type Grid struct {
	cells map[cube.Pos]cell
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[cube.Pos]cell)}
}

// SetBlock places a solid block, replacing any fluid in the cell.
func (g *Grid) SetBlock(pos cube.Pos, b *Block) {
	if b == nil {
		delete(g.cells, pos)
		return
	}
	g.cells[pos] = cell{block: b}
}

// SetWater fills a cell with water of the given amount. Lily pads keep their
// water when placed on it later by SetPlant.
func (g *Grid) SetWater(pos cube.Pos, amount int) {
	if amount <= 0 {
		delete(g.cells, pos)
		return
	}
	if amount > SourceAmount {
		amount = SourceAmount
	}
	g.cells[pos] = cell{water: amount}
}

// SetPlant places a non-solid plant block without removing fluid.
func (g *Grid) SetPlant(pos cube.Pos, b *Block) {
	c := g.cells[pos]
	c.block = b
	g.cells[pos] = c
}

// Block returns the block at pos, or nil for air and plain fluid.
func (g *Grid) Block(pos cube.Pos) *Block {
	return g.cells[pos].block
}

// Len returns the number of non-air cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

func (g *Grid) FluidAt(pos cube.Pos) Fluid {
	c, ok := g.cells[pos]
	if !ok || c.water == 0 {
		return Fluid{}
	}
	f := Fluid{Water: true, Source: c.water == SourceAmount}
	if above := g.cells[pos.Side(cube.FaceUp)]; above.water > 0 {
		f.Height = 1
	} else {
		f.Height = float64(c.water) / 9
	}
	return f
}

func (g *Grid) CollisionBoxes(pos cube.Pos) []cube.BBox {
	b := g.Block(pos)
	if b == nil {
		return nil
	}
	off := mgl64.Vec3{float64(pos[0]), float64(pos[1]), float64(pos[2])}
	out := make([]cube.BBox, 0, len(b.Boxes))
	for _, box := range b.Boxes {
		out = append(out, box.Translate(off))
	}
	return out
}

func (g *Grid) Slipperiness(pos cube.Pos) float64 {
	if b := g.Block(pos); b != nil {
		return b.Slipperiness
	}
	return DefaultSlipperiness
}

func (g *Grid) NoFriction(pos cube.Pos) bool {
	b := g.Block(pos)
	return b != nil && b.NoFriction
}

// Move clips delta against every collision box touched by the swept box,
// resolving the Y axis first, then X, then Z.
func (g *Grid) Move(box cube.BBox, delta mgl64.Vec3) mgl64.Vec3 {
	swept := box.Extend(delta)
	var nearby []cube.BBox
	lo, hi := swept.Min(), swept.Max()
	for x := int(math.Floor(lo[0])) - 1; x <= int(math.Floor(hi[0])); x++ {
		for y := int(math.Floor(lo[1])) - 1; y <= int(math.Floor(hi[1])); y++ {
			for z := int(math.Floor(lo[2])) - 1; z <= int(math.Floor(hi[2])); z++ {
				nearby = append(nearby, g.CollisionBoxes(cube.Pos{x, y, z})...)
			}
		}
	}

	dx, dy, dz := delta[0], delta[1], delta[2]
	for _, n := range nearby {
		dy = box.YOffset(n, dy)
	}
	box = box.Translate(mgl64.Vec3{0, dy, 0})
	for _, n := range nearby {
		dx = box.XOffset(n, dx)
	}
	box = box.Translate(mgl64.Vec3{dx, 0, 0})
	for _, n := range nearby {
		dz = box.ZOffset(n, dz)
	}
	return mgl64.Vec3{dx, dy, dz}
}
