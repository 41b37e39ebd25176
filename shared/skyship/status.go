package skyship

import (
	"math"

	"github.com/automoto/skyships/shared/gamemath"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/voxel"
	"github.com/df-mc/dragonfly/server/block/cube"
)

// surfaceEpsilon is the thickness of the sampling slabs above the top and
// below the bottom of the ship.
const surfaceEpsilon = 0.001

// Classifier samples the world around a ship's bounding box.
type Classifier struct {
	World voxel.World
}

// Classify returns the environment status for box. It records the sampled
// water level in st, and the ground friction when the result is ON_LAND.
// The first matching check wins: submersion, surface water, ground, air.
func (c Classifier) Classify(box cube.BBox, st *State) netconfig.Status {
	if status, ok := c.submersion(box); ok {
		st.WaterLevel = box.Max()[1]
		return status
	}

	level, inWater := c.surface(box)
	st.WaterLevel = level
	if inWater {
		return netconfig.StatusInWater
	}

	if f := c.GroundFriction(box); f > 0 {
		st.LandFriction = f
		return netconfig.StatusOnLand
	}
	return netconfig.StatusInAir
}

// submersion scans the slab just above the top of the box. Flowing water
// above the top wins immediately over still water.
func (c Classifier) submersion(box cube.BBox) (netconfig.Status, bool) {
	lo, hi := box.Min(), box.Max()
	top := hi[1] + surfaceEpsilon
	x0, x1 := gamemath.Floor(lo[0]), gamemath.Ceil(hi[0])
	y0, y1 := gamemath.Floor(hi[1]), gamemath.Ceil(top)
	z0, z1 := gamemath.Floor(lo[2]), gamemath.Ceil(hi[2])

	under := false
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				f := c.World.FluidAt(cube.Pos{x, y, z})
				if !f.Water || top >= float64(y)+f.Height {
					continue
				}
				if !f.Source {
					return netconfig.StatusUnderFlowingWater, true
				}
				under = true
			}
		}
	}
	if under {
		return netconfig.StatusUnderWater, true
	}
	return netconfig.StatusInAir, false
}

// surface scans the slab at the bottom of the box and returns the highest
// water surface seen, NoWaterLevel if none.
func (c Classifier) surface(box cube.BBox) (float64, bool) {
	lo, hi := box.Min(), box.Max()
	x0, x1 := gamemath.Floor(lo[0]), gamemath.Ceil(hi[0])
	y0, y1 := gamemath.Floor(lo[1]), gamemath.Ceil(lo[1]+surfaceEpsilon)
	z0, z1 := gamemath.Floor(lo[2]), gamemath.Ceil(hi[2])

	level := NoWaterLevel
	inWater := false
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				f := c.World.FluidAt(cube.Pos{x, y, z})
				if !f.Water {
					continue
				}
				s := float64(y) + f.Height
				level = math.Max(level, s)
				if lo[1] < s {
					inWater = true
				}
			}
		}
	}
	return level, inWater
}

// GroundFriction averages the slipperiness of every block whose collision
// shape touches a 0.001 thick slab under the box. The scanned range is the
// footprint grown by one block on each side. Corner columns of that range are
// skipped, columns on exactly one edge are scanned only on the interior
// layers, and middle columns over the full height. Lily pads and other
// no-friction plants never count. Returns 0 when nothing was touched.
func (c Classifier) GroundFriction(box cube.BBox) float64 {
	lo, hi := box.Min(), box.Max()
	slab := cube.Box(lo[0], lo[1]-surfaceEpsilon, lo[2], hi[0], lo[1], hi[2])
	x0, x1 := gamemath.Floor(lo[0])-1, gamemath.Ceil(hi[0])+1
	y0, y1 := gamemath.Floor(lo[1]-surfaceEpsilon)-1, gamemath.Ceil(lo[1])+1
	z0, z1 := gamemath.Floor(lo[2])-1, gamemath.Ceil(hi[2])+1

	var sum float64
	count := 0
	for x := x0; x < x1; x++ {
		for z := z0; z < z1; z++ {
			edges := 0
			if x == x0 || x == x1-1 {
				edges++
			}
			if z == z0 || z == z1-1 {
				edges++
			}
			if edges == 2 {
				continue
			}
			for y := y0; y < y1; y++ {
				if edges > 0 && (y == y0 || y == y1-1) {
					continue
				}
				pos := cube.Pos{x, y, z}
				if c.World.NoFriction(pos) || !touches(c.World.CollisionBoxes(pos), slab) {
					continue
				}
				sum += c.World.Slipperiness(pos)
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// WaterLevelAbove finds the first layer above the top of the box that is not
// completely filled with water and returns its surface height. lastVertical
// extends the scan window by last tick's vertical velocity.
func (c Classifier) WaterLevelAbove(box cube.BBox, lastVertical float64) float64 {
	lo, hi := box.Min(), box.Max()
	x0, x1 := gamemath.Floor(lo[0]), gamemath.Ceil(hi[0])
	y0, y1 := gamemath.Floor(hi[1]), gamemath.Ceil(hi[1]-lastVertical)
	z0, z1 := gamemath.Floor(lo[2]), gamemath.Ceil(hi[2])

layers:
	for y := y0; y < y1; y++ {
		h := 0.0
		for x := x0; x < x1; x++ {
			for z := z0; z < z1; z++ {
				if f := c.World.FluidAt(cube.Pos{x, y, z}); f.Water {
					h = math.Max(h, f.Height)
				}
				if h >= 1 {
					continue layers
				}
			}
		}
		return float64(y) + h
	}
	return float64(y1 + 1)
}

func touches(boxes []cube.BBox, slab cube.BBox) bool {
	for _, b := range boxes {
		if b.IntersectsWith(slab) {
			return true
		}
	}
	return false
}
