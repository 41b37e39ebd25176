package loot

import (
	"path/filepath"
	"testing"

	"github.com/automoto/skyships/shared/netconfig"
	"github.com/automoto/skyships/shared/skyship"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestTables(t *testing.T) Tables {
	t.Helper()
	tables, err := Load(filepath.Join("testdata", "tables.yaml"))
	require.NoError(t, err)
	return tables
}

func TestLoadFillsDefaults(t *testing.T) {
	tables := loadTestTables(t)

	require.Len(t, tables.Tables, 3)
	ship := tables.Tables[netconfig.EntityTypeSkyShip]
	assert.Equal(t, 1, ship.Rolls)
	require.Len(t, ship.Entries, 1)
	assert.Equal(t, Entry{Item: "skyships:sky_ship", Count: 1, Weight: 1}, ship.Entries[0])

	crate := tables.Tables["skyships:cargo_crate"]
	assert.Equal(t, 3, crate.Rolls)
	assert.Equal(t, Entry{Item: "minecraft:stick", Count: 1, Weight: 1}, crate.Entries[1])

	trophy := tables.Tables["skyships:trophy"]
	assert.True(t, trophy.RequiresKiller)
	assert.Equal(t, 1, trophy.Rolls)
}

func TestLoadRejectsInvalidTables(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate loot tables")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", "tables: ["},
		{"empty document", ""},
		{"unknown entry field", "tables:\n  a:\n    entries:\n      - item: x\n        colour: red\n"},
		{"missing item", "tables:\n  a:\n    entries:\n      - count: 2\n"},
		{"zero weight", "tables:\n  a:\n    entries:\n      - item: x\n        weight: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestResolveShip(t *testing.T) {
	r := NewResolver(loadTestTables(t), 1)

	drops, err := r.Resolve(netconfig.EntityTypeSkyShip, skyship.LootContext{})
	require.NoError(t, err)
	assert.Equal(t, []skyship.ItemStack{{Item: "skyships:sky_ship", Count: 1}}, drops)
}

func TestResolveUnknownTable(t *testing.T) {
	r := NewResolver(loadTestTables(t), 1)

	_, err := r.Resolve("skyships:nothing", skyship.LootContext{})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestResolveRequiresKiller(t *testing.T) {
	r := NewResolver(loadTestTables(t), 1)

	drops, err := r.Resolve("skyships:trophy", skyship.LootContext{})
	require.NoError(t, err)
	assert.Empty(t, drops)

	drops, err = r.Resolve("skyships:trophy", skyship.LootContext{KillerID: 5})
	require.NoError(t, err)
	assert.Equal(t, []skyship.ItemStack{{Item: "skyships:ensign", Count: 1}}, drops)
}

func TestResolveIsDeterministicPerSeed(t *testing.T) {
	tables := loadTestTables(t)
	a, b := NewResolver(tables, 42), NewResolver(tables, 42)

	for i := 0; i < 20; i++ {
		da, err := a.Resolve("skyships:cargo_crate", skyship.LootContext{})
		require.NoError(t, err)
		db, err := b.Resolve("skyships:cargo_crate", skyship.LootContext{})
		require.NoError(t, err)
		assert.Equal(t, da, db, "roll %d", i)
	}
}

func TestResolveCratesStayInRange(t *testing.T) {
	r := NewResolver(loadTestTables(t), 7)

	for i := 0; i < 50; i++ {
		drops, err := r.Resolve("skyships:cargo_crate", skyship.LootContext{})
		require.NoError(t, err)
		require.NotEmpty(t, drops)

		items := 0
		for _, st := range drops {
			switch st.Item {
			case "minecraft:oak_planks":
				assert.GreaterOrEqual(t, st.Count, 2)
				assert.LessOrEqual(t, st.Count, 15)
			case "minecraft:stick":
				assert.LessOrEqual(t, st.Count, 3)
			default:
				t.Fatalf("unexpected item %q", st.Item)
			}
			items++
		}
		assert.LessOrEqual(t, items, 2, "stacks of one item are merged")
	}
}
