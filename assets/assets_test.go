package assets

import (
	"testing"

	"github.com/automoto/skyships/server/loot"
	"github.com/automoto/skyships/shared/netconfig"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWorldNames(t *testing.T) {
	names, err := ListWorldNames()
	require.NoError(t, err)
	assert.Contains(t, names, "harbor")
}

func TestLoadHarbor(t *testing.T) {
	for _, name := range []string{"harbor", "harbor.tmx", "assets/worlds/harbor.tmx"} {
		t.Run(name, func(t *testing.T) {
			level, err := LoadWorld(name)
			require.NoError(t, err)

			assert.Equal(t, "harbor", level.Name)
			assert.Equal(t, 16, level.Width)
			assert.Equal(t, 16, level.Depth)
			assert.Len(t, level.SpawnsOf("ship"), 2)
			assert.Len(t, level.SpawnsOf("pilot"), 2)
			assert.Len(t, level.SpawnsOf("creature"), 1)

			assert.True(t, level.Grid.FluidAt(cube.Pos{8, 1, 8}).Source)
			assert.Equal(t, "stone", level.Grid.Block(cube.Pos{1, 1, 8}).Name)
		})
	}
}

func TestLoadUnknownWorld(t *testing.T) {
	_, err := LoadWorld("atlantis")
	assert.Error(t, err)
}

func TestShippedLootTables(t *testing.T) {
	tables, err := loot.Parse(LootTables)
	require.NoError(t, err)
	assert.Contains(t, tables.Tables, netconfig.EntityTypeSkyShip)
}
