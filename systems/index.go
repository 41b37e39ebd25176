package systems

import (
	"github.com/automoto/skyships/components"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/automoto/skyships/tags"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// EntityIndex is the X/Z broad-phase the ships use to find entities for their
// mount and push sweep. Height is not indexed; ships filter exactly.
type EntityIndex struct {
	space *resolv.Space
}

var _ skyship.EntityQuery = (*EntityIndex)(nil)

// NewEntityIndex covers a world of width x depth blocks.
func NewEntityIndex(width, depth int) *EntityIndex {
	return &EntityIndex{
		space: resolv.NewSpace(width*components.PixelsPerBlock, depth*components.PixelsPerBlock,
			components.PixelsPerBlock, components.PixelsPerBlock),
	}
}

// Space is the resolv space footprints are added to.
func (idx *EntityIndex) Space() *resolv.Space { return idx.space }

func (idx *EntityIndex) Untrack(obj *resolv.Object) {
	idx.space.Remove(obj)
}

// Refresh moves obj to the current footprint of its occupant.
func (idx *EntityIndex) Refresh(obj *resolv.Object) {
	o, ok := obj.Data.(skyship.Occupant)
	if !ok {
		return
	}
	obj.X, obj.Y, _, _ = components.Footprint(o.BoundingBox())
	obj.Update()
}

// EntitiesWithin returns every tracked occupant whose footprint shares a cell
// with box.
func (idx *EntityIndex) EntitiesWithin(box cube.BBox) []skyship.Occupant {
	x, y, w, h := components.Footprint(box)
	query := resolv.NewObject(x, y, w, h, tags.ResolvQuery)
	idx.space.Add(query)
	defer idx.space.Remove(query)

	check := query.Check(0, 0, tags.ResolvEntity)
	if check == nil {
		return nil
	}
	seen := make(map[*resolv.Object]bool, len(check.Objects))
	var out []skyship.Occupant
	for _, obj := range check.Objects {
		if seen[obj] {
			continue
		}
		seen[obj] = true
		if o, ok := obj.Data.(skyship.Occupant); ok {
			out = append(out, o)
		}
	}
	return out
}

// NewIndexSystem refreshes every footprint once per tick, before the ships
// sweep.
func NewIndexSystem(idx *EntityIndex) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		components.Object.Each(e.World, func(entry *donburi.Entry) {
			idx.Refresh(components.Object.Get(entry).Object)
		})
	}
}
