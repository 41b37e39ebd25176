package voxel

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lafriks/go-tiled"
)

// ErrNoLayers is returned when a TMX file has no tile layer carrying a "y"
// property.
var ErrNoLayers = errors.New("voxel: no voxel layers")

// LoadTMX parses a TMX file into a voxel Level. Every tile layer with an
// integer "y" property is one horizontal slice of the world: TMX columns map
// to X, TMX rows to Z. Tileset tiles carry either a "block" property naming a
// catalog block or a "water" property holding the fluid amount (8 = source);
// a tile may carry both for plants floating on water. Objects in the
// "ShipSpawn", "PilotSpawn" and "CreatureSpawn" groups become spawn points,
// with the object's "y" property as height. It takes an fs.FS so callers can
// pass embed.FS (client) or os.DirFS (server).
func LoadTMX(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	level := &Level{
		Name:  strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Grid:  NewGrid(),
		Width: levelMap.Width,
		Depth: levelMap.Height,
	}

	slices := 0
	for _, layer := range levelMap.Layers {
		if layer.Properties.GetString("y") == "" {
			continue
		}
		y := layer.Properties.GetInt("y")
		slices++
		for z := 0; z < levelMap.Height; z++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[z*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID)
				if err != nil {
					continue
				}
				pos := cube.Pos{x, y, z}
				if amount := tilesetTile.Properties.GetInt("water"); amount > 0 {
					level.Grid.SetWater(pos, amount)
				}
				name := tilesetTile.Properties.GetString("block")
				if name == "" {
					continue
				}
				b, ok := BlockByName(name)
				if !ok {
					return nil, fmt.Errorf("%s: unknown block %q at %v", tmxPath, name, pos)
				}
				if b.NoFriction {
					level.Grid.SetPlant(pos, b)
				} else {
					level.Grid.SetBlock(pos, b)
				}
			}
		}
	}
	if slices == 0 {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoLayers)
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, og := range levelMap.ObjectGroups {
		var kind string
		switch og.Name {
		case "ShipSpawn":
			kind = "ship"
		case "PilotSpawn":
			kind = "pilot"
		case "CreatureSpawn":
			kind = "creature"
		default:
			continue
		}
		for _, o := range og.Objects {
			level.Spawns = append(level.Spawns, Spawn{
				Kind:  kind,
				Pos:   mgl64.Vec3{o.X / tileW, o.Properties.GetFloat("y"), o.Y / tileH},
				Yaw:   o.Properties.GetFloat("yaw"),
				Index: o.Properties.GetInt("spawnIndex"),
			})
		}
	}

	// Sort spawns by index for consistent assignment
	sort.SliceStable(level.Spawns, func(i, j int) bool {
		return level.Spawns[i].Index < level.Spawns[j].Index
	})

	return level, nil
}
